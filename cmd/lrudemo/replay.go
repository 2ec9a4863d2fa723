package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/serroba/lrucache/lru"
)

var (
	// errUnknownCommand is returned for a script line whose first word is
	// not a command.
	errUnknownCommand = errors.New("unknown command")

	// errArgCount is returned when a command has the wrong number of
	// arguments.
	errArgCount = errors.New("wrong number of arguments")
)

// replayer executes script commands against a cache and writes one line of
// output per command that produces a result.
type replayer struct {
	cache *lru.Cache[string, string]
	out   io.Writer
}

func newReplayer(cache *lru.Cache[string, string], out io.Writer) *replayer {
	return &replayer{cache: cache, out: out}
}

// run executes every command read from in. Blank lines and lines starting with
// '#' are skipped. The first failing line stops the replay.
func (r *replayer) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if err := r.exec(strings.Fields(text)); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}

	return scanner.Err()
}

func (r *replayer) exec(fields []string) error {
	cmd, args := fields[0], fields[1:]

	want := map[string]int{
		"put": 2, "get": 1, "peek": 1, "del": 1,
		"keys": 0, "len": 0, "oldest": 0, "purge": 0, "stats": 0,
	}

	n, ok := want[cmd]
	if !ok {
		return fmt.Errorf("%w %q", errUnknownCommand, cmd)
	}

	if len(args) != n {
		return fmt.Errorf("%s: %w: want %d, got %d", cmd, errArgCount,
			n, len(args))
	}

	switch cmd {
	case "put":
		r.cache.Put(args[0], args[1])

		return nil

	case "get":
		v, ok := r.cache.Get(args[0])

		return r.printLookup(args[0], v, ok)

	case "peek":
		v, ok := r.cache.Peek(args[0])

		return r.printLookup(args[0], v, ok)

	case "del":
		if r.cache.Delete(args[0]) {
			return r.printf("deleted %s", args[0])
		}

		return r.printf("%s not found", args[0])

	case "keys":
		return r.printf("keys: [%s]",
			strings.Join(r.cache.Keys(), " "))

	case "len":
		return r.printf("len=%d cap=%d", r.cache.Len(), r.cache.Cap())

	case "oldest":
		k, v, ok := r.cache.Oldest()
		if !ok {
			return r.printf("empty")
		}

		return r.printf("oldest %s=%s", k, v)

	case "purge":
		r.cache.Purge()

		return r.printf("purged")

	default: // "stats"
		s := r.cache.Stats()

		return r.printf("hits=%d misses=%d evictions=%d hit_ratio=%.2f",
			s.Hits, s.Misses, s.Evictions, s.HitRatio())
	}
}

func (r *replayer) printLookup(key, value string, ok bool) error {
	if !ok {
		return r.printf("%s not found", key)
	}

	return r.printf("%s=%s", key, value)
}

func (r *replayer) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(r.out, format+"\n", args...)

	return err
}
