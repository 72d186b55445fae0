// Command migrate_store copies the content collections from one store
// backend to another, e.g. the seed JSON files into sqlite:
//
//	go run ./scripts/migrate_store -from json -from-dir server/data -to sqlite -to-dir var/data
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/store"
)

func main() {
	var fromBackend, fromDir, toBackend, toDir, collections string
	flag.StringVar(&fromBackend, "from", store.BackendJSON, "source backend")
	flag.StringVar(&fromDir, "from-dir", "server/data", "source data directory")
	flag.StringVar(&toBackend, "to", store.BackendSQLite, "target backend")
	flag.StringVar(&toDir, "to-dir", "server/data", "target data directory")
	flag.StringVar(&collections, "collections", strings.Join(defaultCollections(), ","), "comma-separated collections to copy")
	flag.Parse()

	src, err := store.New(fromBackend, fromDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open source: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	dst, err := store.New(toBackend, toDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open target: %v\n", err)
		os.Exit(1)
	}
	defer dst.Close()

	counts, err := copyCollections(context.Background(), src, dst, splitCSV(collections))
	if err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
	for _, name := range splitCSV(collections) {
		fmt.Printf("%s: %d records\n", name, counts[name])
	}
}

func defaultCollections() []string {
	return []string{content.CollectionStates, content.CollectionCities, content.CollectionFeedback}
}

// copyCollections replaces each target collection with the source's
// records, preserving order.
func copyCollections(ctx context.Context, src, dst store.Store, collections []string) (map[string]int, error) {
	if err := src.Init(ctx, collections...); err != nil {
		return nil, err
	}
	if err := dst.Init(ctx, collections...); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(collections))
	for _, name := range collections {
		docs, err := src.Load(ctx, name)
		if err != nil {
			return counts, fmt.Errorf("load %s: %w", name, err)
		}
		err = dst.Update(ctx, name, func([]content.Document) ([]content.Document, error) {
			return docs, nil
		})
		if err != nil {
			return counts, fmt.Errorf("write %s: %w", name, err)
		}
		counts[name] = len(docs)
	}
	return counts, nil
}

func splitCSV(value string) []string {
	raw := strings.Split(value, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
