// Package probe reports the health of the VM a lab runs on.
//
// Each probe runs one fixed command and returns its raw output. A failed
// command yields "Error executing the command: <detail>" instead of an
// error, so callers can always hand the text back to whoever asked.
package probe
