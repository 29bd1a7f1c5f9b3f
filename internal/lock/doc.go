// Package lock serializes lab test runs per repository name.
//
// The pipeline itself assumes a single run per working copy. Callers that
// accept concurrent requests take a lock named after the repository first:
// MemoryLocker within one process, RedisLocker across several vmmanager
// processes sharing a cache root.
package lock
