package wizard

import "github.com/charmbracelet/huh"

// LogLevelOption describes a selectable log level.
type LogLevelOption struct {
	Value       string
	Description string
}

// LogLevels lists the log levels offered by the wizard, most verbose first.
var LogLevels = []LogLevelOption{
	{Value: "debug", Description: "every git and step command"},
	{Value: "info", Description: "runs and stage results"},
	{Value: "warn", Description: "warnings only"},
	{Value: "error", Description: "failures only"},
}

// LogLevelsToOptions converts LogLevels to huh select options.
func LogLevelsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(LogLevels))
	for i, l := range LogLevels {
		opts[i] = huh.NewOption(l.Value+" - "+l.Description, l.Value)
	}
	return opts
}

// ShellOptions lists the shells step commands can run with.
var ShellOptions = []huh.Option[string]{
	huh.NewOption("bash", "/bin/bash"),
	huh.NewOption("sh", "/bin/sh"),
}
