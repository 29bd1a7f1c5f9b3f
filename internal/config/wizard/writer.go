package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vlabs/vmmanager/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only values that differ from the defaults are written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var out any = cfg
	if !fullOutput {
		out = buildMinimalConfig(cfg)
	}

	yamlBytes, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// buildMinimalConfig keeps only the keys that differ from config.Default.
func buildMinimalConfig(cfg *config.Config) map[string]any {
	d := config.Default()
	out := map[string]any{}

	setIf(out, "cache_root", cfg.CacheRoot, d.CacheRoot)
	setIf(out, "spec_path", cfg.SpecPath, d.SpecPath)
	setIf(out, "shell", cfg.Shell, d.Shell)

	log := map[string]any{}
	setIf(log, "file", cfg.Log.File, d.Log.File)
	setIf(log, "level", cfg.Log.Level, d.Log.Level)
	setIf(log, "backups", cfg.Log.Backups, d.Log.Backups)
	setIf(log, "console", cfg.Log.Console, d.Log.Console)
	setSection(out, "log", log)

	server := map[string]any{}
	setIf(server, "address", cfg.Server.Address, d.Server.Address)
	setIf(server, "metrics", cfg.Server.Metrics, d.Server.Metrics)
	setSection(out, "server", server)

	if cfg.Remote.Enabled() {
		out["remote"] = cfg.Remote
	}

	if cfg.Archive.Enabled() {
		out["archive"] = cfg.Archive
	}

	lock := map[string]any{}
	setIf(lock, "redis_addr", cfg.Lock.RedisAddr, d.Lock.RedisAddr)
	if cfg.Lock.TTL != d.Lock.TTL {
		lock["ttl"] = cfg.Lock.TTL.String()
	}
	setSection(out, "lock", lock)

	return out
}

func setIf[T comparable](m map[string]any, key string, v, def T) {
	if v != def {
		m[key] = v
	}
}

func setSection(m map[string]any, key string, section map[string]any) {
	if len(section) > 0 {
		m[key] = section
	}
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: Only values differing from the defaults are listed. Use --full for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# vmmanager configuration
# Generated by: vmmanager init
# Generated at: %s
# Output mode: %s%s
#
# Environment variables prefixed with VMM_ override these values, e.g.
#   VMM_CACHE_ROOT, VMM_LOG_LEVEL, VMM_ARCHIVE_SECRET_KEY
#
# Usage:
#   vmmanager test-lab <lab-url> -c %s
`, time.Now().Format(time.RFC3339), mode, note, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
