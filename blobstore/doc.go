// Package blobstore abstracts read-only access to the dataset blobs the
// generator consumes (vocabulary, vectors, frequency corpus).
//
// Two implementations are provided: LocalStore for files on disk and S3Store
// for datasets published to object storage. Both hand back whole blobs; the
// dataset files are loaded once at startup and never re-read.
package blobstore
