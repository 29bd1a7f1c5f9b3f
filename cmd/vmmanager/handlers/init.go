package handlers

import (
	"context"
	"fmt"

	"github.com/vlabs/vmmanager/internal/config"
	"github.com/vlabs/vmmanager/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	wizardFileExists       = wizard.FileExists
	wizardConfirmOverwrite = wizard.ConfirmOverwrite
	wizardRunWizard        = wizard.RunWizard
	wizardBuildConfig      = wizard.BuildConfig
	wizardWriteConfig      = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to outputPath.
func Init(ctx context.Context, outputPath string, advanced, fullOutput bool) error {
	if wizardFileExists(outputPath) {
		ok, err := wizardConfirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("failed to confirm overwrite: %w", err)
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome(advanced, fullOutput)

	result, err := wizardRunWizard(ctx, advanced)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizardBuildConfig(result)

	if err := wizardWriteConfig(cfg, outputPath, fullOutput); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome(advanced, fullOutput bool) {
	fmt.Println()
	fmt.Println("vmmanager - lab test runner")
	fmt.Println("===========================")
	fmt.Println()
	fmt.Println("This wizard will help you create a vmmanager configuration.")
	if advanced {
		fmt.Println("Running in advanced mode: remote probes, report archive and run locks.")
	}
	if fullOutput {
		fmt.Println("Full output mode: every option is written.")
	} else {
		fmt.Println("Minimal output mode: only values differing from the defaults are written.")
	}
	fmt.Println()
}

// printInitSuccess prints the summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Lab cache:  %s\n", cfg.CacheRoot)
	fmt.Printf("  Lab spec:   %s\n", cfg.SpecPath)
	fmt.Printf("  Shell:      %s\n", cfg.Shell)
	fmt.Printf("  Log:        %s (%s)\n", cfg.Log.File, cfg.Log.Level)
	fmt.Printf("  API:        %s\n", cfg.Server.Address)
	if cfg.Remote.Enabled() {
		fmt.Printf("  Probes:     ssh %s@%s:%d\n", cfg.Remote.User, cfg.Remote.Host, cfg.Remote.Port)
	} else {
		fmt.Println("  Probes:     local")
	}
	if cfg.Archive.Enabled() {
		fmt.Printf("  Archive:    s3://%s/%s\n", cfg.Archive.Bucket, cfg.Archive.Prefix)
	}
	if cfg.Lock.RedisAddr != "" {
		fmt.Printf("  Run locks:  redis %s\n", cfg.Lock.RedisAddr)
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Test a lab:")
	fmt.Printf("     vmmanager test-lab <lab-url> -c %s\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Or serve the HTTP API:")
	fmt.Printf("     vmmanager serve -c %s\n", outputPath)
	fmt.Println()
}
