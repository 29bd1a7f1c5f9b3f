// Package s3 provides a small client for S3-compatible object storage.
//
// It backs the run report archive: reports are written as JSON objects into
// one bucket and can be listed and read back by key prefix. Any endpoint
// that speaks the S3 API works (AWS, MinIO, Ceph, Hetzner).
package s3
