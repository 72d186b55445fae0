package content

import "fmt"

// Rough bounding box of India; every seeded coordinate must fall inside.
const (
	minLat = 8.0
	maxLat = 37.0
	minLng = 68.0
	maxLng = 97.0
)

// Problem describes one integrity issue found by CheckReferences.
type Problem struct {
	Collection string `json:"collection"`
	Slug       string `json:"slug"`
	Detail     string `json:"detail"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s/%s: %s", p.Collection, p.Slug, p.Detail)
}

// CheckReferences audits the soft foreign keys between states and cities:
// unique slugs, resolvable stateSlug / cities[] references and coordinates
// inside India. The store never enforces these; this is run by tooling and
// at start-up.
func CheckReferences(states, cities []Document) []Problem {
	var problems []Problem

	stateSlugs := uniqueSlugs(CollectionStates, states, &problems)
	citySlugs := uniqueSlugs(CollectionCities, cities, &problems)

	for _, city := range cities {
		ref := city.String("stateSlug")
		if _, ok := stateSlugs[ref]; !ok {
			problems = append(problems, Problem{CollectionCities, city.Slug(), fmt.Sprintf("unknown stateSlug %q", ref)})
		}
	}
	for _, state := range states {
		for _, ref := range state.Strings("cities") {
			if _, ok := citySlugs[ref]; !ok {
				problems = append(problems, Problem{CollectionStates, state.Slug(), fmt.Sprintf("unknown city %q", ref)})
			}
		}
	}

	checkCoords := func(collection string, docs []Document) {
		for _, doc := range docs {
			c, ok := doc.Coords()
			switch {
			case !ok:
				problems = append(problems, Problem{collection, doc.Slug(), "missing coords"})
			case c.Lat < minLat || c.Lat > maxLat || c.Lng < minLng || c.Lng > maxLng:
				problems = append(problems, Problem{collection, doc.Slug(), fmt.Sprintf("coords %.4f,%.4f outside India", c.Lat, c.Lng)})
			}
		}
	}
	checkCoords(CollectionStates, states)
	checkCoords(CollectionCities, cities)

	return problems
}

func uniqueSlugs(collection string, docs []Document, problems *[]Problem) map[string]struct{} {
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		slug := doc.Slug()
		if slug == "" {
			*problems = append(*problems, Problem{collection, "", "missing slug"})
			continue
		}
		if _, dup := seen[slug]; dup {
			*problems = append(*problems, Problem{collection, slug, "duplicate slug"})
		}
		seen[slug] = struct{}{}
	}
	return seen
}
