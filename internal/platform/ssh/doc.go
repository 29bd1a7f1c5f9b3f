// Package ssh runs commands on a remote host over SSH.
//
// vmmanager uses it to run health probes against a lab VM other than the
// one it runs on. The client authenticates with a private key, retries the
// dial with exponential backoff and verifies host keys against a
// known_hosts file when one is configured.
package ssh
