package main

import (
	"fmt"

	"github.com/btcsuite/btclog/v2"
	"github.com/jessevdk/go-flags"
	"github.com/serroba/lrucache/lru"
)

const (
	defaultCapacity   = 2
	defaultDebugLevel = "info"
	defaultNamespace  = "lrudemo"
)

// config defines the configuration options for lrudemo.
type config struct {
	Capacity   int    `long:"capacity" short:"c" description:"Maximum number of cached entries"`
	Script     string `long:"script" short:"s" description:"Path to a command script; commands are read from stdin when empty"`
	DebugLevel string `long:"debuglevel" short:"d" description:"Logging level for the cache {trace, debug, info, warn, error, critical, off}"`
	Metrics    bool   `long:"metrics" description:"Print the cache's Prometheus metrics after the script has run"`
	Namespace  string `long:"namespace" description:"Prometheus namespace used with --metrics"`
}

// defaultConfig returns a config with all defaults filled in.
func defaultConfig() config {
	return config{
		Capacity:   defaultCapacity,
		DebugLevel: defaultDebugLevel,
		Namespace:  defaultNamespace,
	}
}

// loadConfig parses args over the defaults and validates the result.
//
// A request for help is returned as a *flags.Error of type flags.ErrHelp
// carrying the usage text.
func loadConfig(args []string) (*config, error) {
	cfg := defaultConfig()

	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", rest)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks option values that the flag parser cannot.
func (c *config) validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("invalid --capacity=%d: %w", c.Capacity,
			lru.ErrInvalidCapacity)
	}

	if _, ok := btclog.LevelFromString(c.DebugLevel); !ok {
		return fmt.Errorf("invalid --debuglevel=%q", c.DebugLevel)
	}

	return nil
}
