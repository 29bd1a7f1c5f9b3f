// Package actionrunner executes the installer and build steps of a lab.
//
// The pipeline depends only on the [Runner] interface. [ShellRunner] is the
// default implementation: every step is a shell command line run with
// "<shell> -c <line>" inside the lab's working copy.
package actionrunner
