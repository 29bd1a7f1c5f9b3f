package config

// Default locations, matching the layout of an existing lab VM.
const (
	DefaultCacheRoot  = "/root/VMManager/lab-repo-cache"
	DefaultSpecPath   = "scripts/labspec.json"
	DefaultShell      = "/bin/bash"
	DefaultLogFile    = "/root/VMManager/log/vmmanager.log"
	DefaultConfigFile = "vmmanager.yaml"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VMM_"
