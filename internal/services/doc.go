// Package services provides shared error classification and context
// plumbing used by the segmentation pipeline stages.
package services
