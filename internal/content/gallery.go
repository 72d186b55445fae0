package content

import (
	"time"

	json "github.com/goccy/go-json"
)

// GalleryImage is a photo attached to a city.
type GalleryImage struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Caption    string    `json:"caption"`
	Moderated  bool      `json:"moderated"`
	UploadedAt time.Time `json:"uploadedAt"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
}

// UnmarshalJSON treats an entry without a moderated flag as approved;
// curated seed images never carried one.
func (g *GalleryImage) UnmarshalJSON(data []byte) error {
	type plain GalleryImage
	var raw struct {
		plain
		ID         any     `json:"id"`
		Moderated  *bool   `json:"moderated"`
		UploadedAt *string `json:"uploadedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*g = GalleryImage(raw.plain)
	g.ID = Document{"id": raw.ID}.String("id")
	g.Moderated = raw.Moderated == nil || *raw.Moderated
	if raw.UploadedAt != nil {
		if ts, err := time.Parse(time.RFC3339Nano, *raw.UploadedAt); err == nil {
			g.UploadedAt = ts
		}
	}
	return nil
}

// Gallery decodes a city's gallery. Malformed entries are skipped.
func Gallery(city Document) []GalleryImage {
	raw, ok := city["gallery"].([]any)
	if !ok {
		return nil
	}
	images := make([]GalleryImage, 0, len(raw))
	for _, entry := range raw {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		var img GalleryImage
		if err := json.Unmarshal(data, &img); err != nil {
			continue
		}
		images = append(images, img)
	}
	return images
}

// VisibleGallery returns the moderated images, or every image when none
// has been moderated yet.
func VisibleGallery(images []GalleryImage) []GalleryImage {
	moderated := make([]GalleryImage, 0, len(images))
	for _, img := range images {
		if img.Moderated {
			moderated = append(moderated, img)
		}
	}
	if len(moderated) > 0 {
		return moderated
	}
	return images
}

// PendingImage is an unmoderated upload together with its owning city.
type PendingImage struct {
	CitySlug string       `json:"citySlug"`
	CityName string       `json:"cityName"`
	Image    GalleryImage `json:"image"`
}

// Pending lists unmoderated images across all cities.
func Pending(cities []Document) []PendingImage {
	out := make([]PendingImage, 0)
	for _, city := range cities {
		for _, img := range Gallery(city) {
			if img.Moderated {
				continue
			}
			out = append(out, PendingImage{CitySlug: city.Slug(), CityName: city.String("name"), Image: img})
		}
	}
	return out
}

// ReferencedFiles returns the set of gallery URLs across cities.
func ReferencedFiles(cities []Document) map[string]struct{} {
	refs := make(map[string]struct{})
	for _, city := range cities {
		for _, img := range Gallery(city) {
			refs[img.URL] = struct{}{}
		}
	}
	return refs
}
