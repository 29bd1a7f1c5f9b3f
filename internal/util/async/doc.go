// Package async provides utilities for running independent operations
// concurrently.
//
// [Collect] runs one function per input and returns the results in input
// order. It is used to run every health probe at once.
package async
