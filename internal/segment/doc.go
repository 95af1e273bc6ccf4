// Package segment locates song boundaries in long live recordings.
//
// The engine is a strictly sequential four-stage computation over a decoded
// sample stream: an amplitude profiler reduces the stream to windowed dBFS
// levels, a threshold estimator derives an adaptive silence threshold from
// the level distribution, a span detector turns the profile into merged and
// filtered song spans, and a track exporter materializes padded, faded
// slices ready for encoding.
//
// Every stage is a pure function over its inputs: no file or network I/O,
// no randomness, no state shared between recordings. Callers own the sample
// stream; the engine only reads it. Non-fatal anomalies (dropped fragments,
// oversize spans, degenerate slices) are collected into a Report for the
// caller to log rather than silently discarded.
package segment
