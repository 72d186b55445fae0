// Command check_data audits the content collections: unique slugs,
// resolvable state/city references and coordinates inside India. It exits
// non-zero when any problem is found.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/discovernortheast/internal/config"
	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	backend := flag.String("backend", cfg.StoreBackend, "store backend: json, sqlite or badger")
	dataDir := flag.String("data", cfg.DataDir, "data directory")
	expectStates := flag.Int("states", 8, "expected number of states (0 to skip)")
	minCities := flag.Int("min-cities", 2, "minimum cities listed per state (0 to skip)")
	flag.Parse()

	st, err := store.New(*backend, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	problems, err := check(context.Background(), st, *expectStates, *minCities)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check: %v\n", err)
		os.Exit(1)
	}
	for _, p := range problems {
		fmt.Println("FAIL", p)
	}
	if len(problems) > 0 {
		fmt.Printf("%d problem(s) found\n", len(problems))
		os.Exit(1)
	}
	fmt.Println("ok: content references are consistent")
}

func check(ctx context.Context, st store.Store, expectStates, minCities int) ([]string, error) {
	states, err := st.Load(ctx, content.CollectionStates)
	if err != nil {
		return nil, err
	}
	cities, err := st.Load(ctx, content.CollectionCities)
	if err != nil {
		return nil, err
	}

	var out []string
	if expectStates > 0 && len(states) != expectStates {
		out = append(out, fmt.Sprintf("expected %d states, got %d", expectStates, len(states)))
	}
	for _, state := range states {
		if state.String("name") == "" {
			out = append(out, fmt.Sprintf("%s/%s: missing name", content.CollectionStates, state.Slug()))
		}
		if n := len(state.Strings("cities")); minCities > 0 && n < minCities {
			out = append(out, fmt.Sprintf("%s/%s: lists %d cities, want at least %d", content.CollectionStates, state.Slug(), n, minCities))
		}
	}
	for _, p := range content.CheckReferences(states, cities) {
		out = append(out, p.String())
	}
	return out, nil
}
