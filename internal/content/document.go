// Package content holds the records served by the site: states, cities,
// their gallery images, visitor feedback and the slides built from them.
package content

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Collection names as stored on disk.
const (
	CollectionStates   = "states"
	CollectionCities   = "cities"
	CollectionFeedback = "feedback"
)

// Document is a State or City record. Records are kept as generic maps so
// that fields this server does not know about survive a rewrite.
type Document map[string]any

// Slug returns the record's primary key.
func (d Document) Slug() string {
	return d.String("slug")
}

// String returns the value at key as text. Numbers are formatted without
// exponent so legacy numeric ids compare equal to their string form.
func (d Document) String(key string) string {
	switch v := d[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case nil:
		return ""
	default:
		return ""
	}
}

// Strings returns a list-valued field as strings, skipping non-string items.
func (d Document) Strings(key string) []string {
	raw, ok := d[key].([]any)
	if !ok {
		if typed, ok := d[key].([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Coords returns the record's coordinates and whether both were present.
func (d Document) Coords() (Coords, bool) {
	raw, ok := d["coords"].(map[string]any)
	if !ok {
		return Coords{}, false
	}
	lat, latOK := raw["lat"].(float64)
	lng, lngOK := raw["lng"].(float64)
	return Coords{Lat: lat, Lng: lng}, latOK && lngOK
}

// Clone deep-copies the document through its JSON form.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// Decode converts the document into a typed value.
func (d Document) Decode(dst any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

// ToDocument converts a typed value into a Document.
func ToDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Coords is a WGS84 position.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Find returns the index of the record with slug, or -1.
func Find(docs []Document, slug string) int {
	for i, doc := range docs {
		if doc.Slug() == slug {
			return i
		}
	}
	return -1
}

// CitiesOf returns the cities whose stateSlug matches, in stored order.
func CitiesOf(cities []Document, stateSlug string) []Document {
	out := make([]Document, 0)
	for _, city := range cities {
		if city.String("stateSlug") == stateSlug {
			out = append(out, city)
		}
	}
	return out
}

// Slugify lowercases name and joins its alphanumeric runs with dashes.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		isWord := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isWord {
			pendingDash = b.Len() > 0
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
