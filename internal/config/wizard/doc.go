// Package wizard provides an interactive configuration wizard for vmmanager.
//
// RunWizard collects answers with charmbracelet/huh forms, BuildConfig turns
// them into a config.Config and WriteConfig writes the YAML file read by
// every vmmanager command.
package wizard
