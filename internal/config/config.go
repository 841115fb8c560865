// Package config loads process configuration for the execution subsystem
// from the environment, the same way Station's own internal/config does:
// a package-level Config built once at startup via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	defaultTimeoutSeconds    = 30
	defaultTimeoutMaxSeconds = 120
	defaultStdoutMaxBytes    = 32768
	defaultStderrMaxBytes    = 32768
	defaultPythonBin         = "python3"
)

// Config holds the Execution Subsystem's runtime settings, all overridable
// via environment variables.
type Config struct {
	// TimeoutDefaultSeconds is used when a caller supplies timeout_seconds <= 0.
	TimeoutDefaultSeconds int
	// TimeoutMaxSeconds caps any caller-supplied timeout_seconds.
	TimeoutMaxSeconds int
	// StdoutMaxBytes/StderrMaxBytes cap the size of captured child output.
	StdoutMaxBytes int
	StderrMaxBytes int
	// SrcRoot is the directory workflow script_path values resolve under.
	SrcRoot string
	// ManifestPath is the capability manifest YAML file.
	ManifestPath string
	// PythonBin is the interpreter binary used to run sandboxed children.
	PythonBin string
	// ZoektAPIURL is passed through to children via the environment allow-list.
	ZoektAPIURL string
}

var loaded *Config

// Load reads configuration from the environment and validates it. It fails
// fast (mirroring the original server's required-env-var checks) when
// SrcRoot does not exist, since every workflow invocation needs it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()

	v.SetDefault("EXECUTION_TIMEOUT_DEFAULT", defaultTimeoutSeconds)
	v.SetDefault("EXECUTION_TIMEOUT_MAX", defaultTimeoutMaxSeconds)
	v.SetDefault("EXECUTION_STDOUT_MAX_BYTES", defaultStdoutMaxBytes)
	v.SetDefault("EXECUTION_STDERR_MAX_BYTES", defaultStderrMaxBytes)
	v.SetDefault("EXECUTION_SRC_ROOT", "./workflows")
	v.SetDefault("EXECUTION_PYTHON_BIN", defaultPythonBin)

	for _, key := range []string{
		"EXECUTION_TIMEOUT_DEFAULT",
		"EXECUTION_TIMEOUT_MAX",
		"EXECUTION_STDOUT_MAX_BYTES",
		"EXECUTION_STDERR_MAX_BYTES",
		"EXECUTION_SRC_ROOT",
		"EXECUTION_MANIFEST_PATH",
		"EXECUTION_PYTHON_BIN",
		"ZOEKT_API_URL",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	srcRoot := v.GetString("EXECUTION_SRC_ROOT")
	info, err := os.Stat(srcRoot)
	if err != nil {
		return nil, fmt.Errorf("config: EXECUTION_SRC_ROOT %q: %w", srcRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config: EXECUTION_SRC_ROOT %q is not a directory", srcRoot)
	}

	manifestPath := v.GetString("EXECUTION_MANIFEST_PATH")
	if manifestPath == "" {
		manifestPath = filepath.Join(srcRoot, "manifest.yaml")
	}

	cfg := &Config{
		TimeoutDefaultSeconds: v.GetInt("EXECUTION_TIMEOUT_DEFAULT"),
		TimeoutMaxSeconds:     v.GetInt("EXECUTION_TIMEOUT_MAX"),
		StdoutMaxBytes:        v.GetInt("EXECUTION_STDOUT_MAX_BYTES"),
		StderrMaxBytes:        v.GetInt("EXECUTION_STDERR_MAX_BYTES"),
		SrcRoot:               srcRoot,
		ManifestPath:          manifestPath,
		PythonBin:             v.GetString("EXECUTION_PYTHON_BIN"),
		ZoektAPIURL:           v.GetString("ZOEKT_API_URL"),
	}

	loaded = cfg
	return cfg, nil
}

// Loaded returns the most recently Load-ed Config, or nil if Load has not
// run yet.
func Loaded() *Config {
	return loaded
}
