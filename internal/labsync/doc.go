// Package labsync keeps a local working copy of each lab repository.
//
// A lab is identified by its source URL. The working copy lives under a
// cache root in a directory named after the last path segment of the URL
// (see [RepoName]). [Synchronizer.Sync] clones the repository when the
// directory is absent, pulls it otherwise, and checks out the requested
// version when one is given. Each failure is reported as a [*SyncError]
// naming the step that failed.
package labsync
