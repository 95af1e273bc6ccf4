// Package wavio is the codec collaborator at the engine boundary: it decodes
// PCM WAV recordings into in-memory sample streams and writes extracted track
// slices back out as WAV files. The segmentation engine itself never touches
// files; everything that does lives here.
package wavio
