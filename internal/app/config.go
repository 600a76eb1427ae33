package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories of call blocks
	Call          string   // single function name to call
	Args          string   // hcl expression with the arguments for Call
	List          bool     // print registered functions instead of calling

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 && cfg.Call == "" && !cfg.List {
		return nil, errors.New("one of a manifest path, a call or list is required")
	}
	if cfg.Args != "" && cfg.Call == "" {
		return nil, errors.New("args given without a call")
	}
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	return &cfg, nil
}
