// Package store persists segmentation runs in SQLite and exposes helpers
// for driving their lifecycle.
//
// The Store manages database connections, schema initialization, and status
// transitions. Runs capture the analyzed threshold, detected spans, and the
// exported track inventory so the CLI can report on past work.
//
// The database is a run history, not an archive of audio. Schema changes bump
// the version in schema.go; users clear the database to adopt the new schema.
package store
