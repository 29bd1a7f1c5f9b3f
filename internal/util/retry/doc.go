// Package retry retries an operation with exponential backoff.
//
// It is used for transient network operations at the edges of the system,
// such as dialing the remote probe host over SSH. Git and lab step commands
// are never retried.
package retry
