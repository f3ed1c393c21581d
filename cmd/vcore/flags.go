package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pozdnyavladimer-jpg/vcore-topological-chip/config"
)

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	Command         string
	Args            []string
	ConfigPath      string
	LogLevel        string
	LogFormat       string
	SeedDir         string
	Resume          bool
	Save            bool
	DesignSeed      int64
	MetricsPort     int
	ShutdownTimeout time.Duration
	ShowVersion     bool
	ShowHelp        bool
	Validate        bool
}

func parseFlags() (*CLIConfig, error) {
	cfg := &CLIConfig{}

	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("VCORE_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: VCORE_CONFIG)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("VCORE_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: VCORE_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("VCORE_LOG_FORMAT", "text"),
		"Log format: json, text (env: VCORE_LOG_FORMAT)")

	flag.StringVar(&cfg.SeedDir, "seed-dir",
		getEnv("VCORE_SEED_DIR", ""),
		"Directory for file-based seed checkpoints (env: VCORE_SEED_DIR)")

	flag.BoolVar(&cfg.Resume, "resume", false,
		"Restore engine state from the seed directory before ingesting")

	flag.BoolVar(&cfg.Save, "save", false,
		"Save engine state to the seed directory after ingesting")

	flag.Int64Var(&cfg.DesignSeed, "design-seed", 7,
		"Random seed for the design command")

	flag.IntVar(&cfg.MetricsPort, "metrics-port",
		getEnvInt("VCORE_METRICS_PORT", 9090),
		"Prometheus metrics port for serve, 0 to disable (env: VCORE_METRICS_PORT)")

	flag.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout",
		getEnvDuration("VCORE_SHUTDOWN_TIMEOUT", 30*time.Second),
		"Graceful shutdown timeout (env: VCORE_SHUTDOWN_TIMEOUT)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = printDetailedHelp
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 {
		cfg.Command = args[0]
		cfg.Args = args[1:]
	}

	if err := validateFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.LogFormat] {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.MetricsPort < 0 || cfg.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", cfg.MetricsPort)
	}

	if (cfg.Resume || cfg.Save) && cfg.SeedDir == "" {
		return fmt.Errorf("-resume and -save require -seed-dir")
	}

	return nil
}

func loadConfig(cliCfg *CLIConfig) (config.Config, error) {
	if cliCfg.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(cliCfg.ConfigPath)
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Topological Attractor Engine

Usage: %s [options] <command> [args]

Commands:
  serve             Host the engine over NATS subjects
  words <words>     Ingest words through the linguistics adapter
  formula <f>       Ingest a chemical formula (e.g. C6H12O6)
  sequence <seq>    Ingest an amino acid sequence
  design            Generate a residue sequence from the design grammar

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Ingest words and show the lattice
  %s words WATER LOVE TRUTH

  # Save state, then resume in a later run
  %s -seed-dir=/tmp/vcore -save words WAR FOOD HOUSE
  %s -seed-dir=/tmp/vcore -resume -save words TRUTH SPIRIT

  # Serve over NATS with a config file
  %s -config=/etc/vcore/config.yaml serve

Version: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
