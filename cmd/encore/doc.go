// Command encore splits long live recordings into individual song tracks.
//
// The split command runs the full pipeline: it profiles the recording's
// loudness, finds the silences separating songs, and writes one numbered WAV
// file per song. The plan command performs the same analysis without writing
// anything, runs inspects past work, and config manages the TOML
// configuration file.
package main
