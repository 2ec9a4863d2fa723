// Command lrudemo replays a script of cache commands against an LRU cache and
// prints each result.
//
// Script commands, one per line:
//
//	put <key> <value>
//	get <key>
//	peek <key>
//	del <key>
//	keys | len | oldest | purge | stats
//
// Blank lines and lines starting with '#' are ignored.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/btcsuite/btclog/v2"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/serroba/lrucache/lru"
	"github.com/serroba/lrucache/metrics"
)

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		return
	}

	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		_, _ = fmt.Fprintln(os.Stdout, err)
		return
	}

	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// run is the testable body of main.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	setupLogging(stderr, cfg.DebugLevel)

	cache, err := lru.New(cfg.Capacity, lru.WithEvictCallback(
		func(key, value string) {
			_, _ = fmt.Fprintf(stdout, "evicted %s=%s\n", key, value)
		},
	))
	if err != nil {
		return err
	}

	in := stdin
	if cfg.Script != "" {
		f, err := os.Open(cfg.Script)
		if err != nil {
			return fmt.Errorf("unable to open script: %w", err)
		}
		defer f.Close()

		in = f
	}

	if err := newReplayer(cache, stdout).run(in); err != nil {
		return err
	}

	if cfg.Metrics {
		return writeMetrics(stdout, cfg.Namespace, cache)
	}

	return nil
}

// setupLogging points the cache's logger at w with the given level. The level
// has already been validated by loadConfig.
func setupLogging(w io.Writer, level string) {
	logger := btclog.NewSLogger(btclog.NewDefaultHandler(w))

	lvl, _ := btclog.LevelFromString(level)
	logger.SetLevel(lvl)

	lru.UseLogger(logger)
}

// writeMetrics gathers the cache's metrics through a private registry and
// writes them in the Prometheus text format.
func writeMetrics(w io.Writer, namespace string, src metrics.StatsSource) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector(namespace, "demo", src)); err != nil {
		return err
	}

	families, err := reg.Gather()
	if err != nil {
		return err
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}

	return nil
}
