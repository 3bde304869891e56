// Package storage uploads image files to object storage and returns the
// public URL the API should store.
//
// Two Uploader implementations exist: S3Uploader writes straight into an
// S3-compatible bucket with aws-sdk-go-v2, RelayUploader sends the file to
// the API's upload relay. Both report byte-level progress while the body is
// read.
package storage
