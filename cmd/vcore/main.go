// Package main implements the entry point for the vcore attractor engine.
// It serves the engine over NATS or runs self-contained demo ingestions
// of words, chemical formulas, and residue sequences.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
)

// Build information constants
const (
	Version = "0.1.0"
	appName = "vcore"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, err := parseFlags()
	if err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp || cliCfg.Command == "" {
		printDetailedHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	switch cliCfg.Command {
	case "serve":
		return runServe(cliCfg, cfg, logger)
	case "words":
		return runWords(cliCfg, cfg, logger)
	case "formula":
		return runFormula(cliCfg, cfg, logger)
	case "sequence":
		return runSequence(cliCfg, cfg, logger)
	case "design":
		return runDesign(cliCfg)
	default:
		return fmt.Errorf("unknown command: %s", cliCfg.Command)
	}
}
