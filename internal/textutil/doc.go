// Package textutil provides text processing utilities for filename
// sanitization and duration formatting.
//
// The primary use cases are:
//   - Sanitizing track titles and path segments for safe filesystem use
//   - Rendering millisecond offsets as clock-style durations for logs and
//     tables
package textutil
