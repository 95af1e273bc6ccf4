// Package pipeline drives segmentation runs end to end: loading the source
// recording, detecting song boundaries, and exporting numbered tracks.
//
// A run moves through two stages. The analyze stage profiles the recording,
// estimates (or accepts) the silence threshold, and persists the detected
// spans. The export stage plans padded slices, extracts them with a bounded
// worker pool, and writes one WAV file per track. Stage transitions are
// persisted through the run store so interrupted work is visible in the run
// history.
//
// The output directory is guarded by a file lock so concurrent runs cannot
// interleave track files.
package pipeline
