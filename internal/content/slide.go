package content

import "fmt"

// Placeholder assets shown when an image fails to load.
const (
	PlaceholderHero    = "/assets/placeholder-hero.svg"
	PlaceholderThumb   = "/assets/placeholder-thumb.jpg"
	PlaceholderGallery = "/assets/placeholder.jpg"
)

// CallToAction is the button rendered on a hero slide.
type CallToAction struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// CarouselSlide is a presentation value built fresh from a record on each
// page load; it is never persisted.
type CarouselSlide struct {
	Image           string        `json:"image"`
	Alt             string        `json:"alt"`
	Title           string        `json:"title,omitempty"`
	Subtitle        string        `json:"subtitle,omitempty"`
	Description     string        `json:"description,omitempty"`
	DescriptionHTML string        `json:"descriptionHtml,omitempty"`
	CTA             *CallToAction `json:"cta,omitempty"`
}

// StateSlide builds a hero slide for a state record.
func StateSlide(state Document) CarouselSlide {
	name := state.String("name")
	image := state.String("heroImage")
	if image == "" {
		image = state.String("image")
	}
	if image == "" {
		image = PlaceholderHero
	}
	alt := name
	if tagline := state.String("tagline"); tagline != "" {
		alt = fmt.Sprintf("%s - %s", name, tagline)
	}
	return CarouselSlide{
		Image:       image,
		Alt:         alt,
		Title:       name,
		Subtitle:    state.String("tagline"),
		Description: state.String("description"),
		CTA: &CallToAction{
			Text: "Explore " + name,
			Link: "state.html?slug=" + state.Slug(),
		},
	}
}

// GallerySlide builds a plain slide for a gallery image.
func GallerySlide(img GalleryImage, cityName string) CarouselSlide {
	alt := img.Caption
	if alt == "" {
		alt = cityName
	}
	return CarouselSlide{
		Image:       img.URL,
		Alt:         alt,
		Title:       cityName,
		Description: img.Caption,
	}
}
