// Package config defines the runtime configuration of vmmanager.
//
// A [Config] starts from [Default], is overlaid by an optional YAML file and
// then by VMM_* environment variables, and is validated before use. Every
// command of the CLI and the HTTP server build their collaborators from it.
package config
