package lightbox

import (
	"strings"

	"github.com/discovernortheast/internal/content"
)

// Normalize converts heterogeneous gallery input into Images. Accepted
// items are URL strings, Image, content.GalleryImage, content.Document and
// string-keyed maps carrying src or url plus caption or alt. Items without
// a source are skipped.
func Normalize[T any](items []T) []Image {
	out := make([]Image, 0, len(items))
	for _, item := range items {
		if img, ok := FromValue(item); ok {
			out = append(out, img)
		}
	}
	return out
}

// FromValue normalises a single item.
func FromValue(v any) (Image, bool) {
	switch item := v.(type) {
	case string:
		return normalize(Image{Src: item})
	case Image:
		return normalize(item)
	case *Image:
		if item == nil {
			return Image{}, false
		}
		return normalize(*item)
	case content.GalleryImage:
		return normalize(Image{Src: item.URL, Caption: item.Caption})
	case *content.GalleryImage:
		if item == nil {
			return Image{}, false
		}
		return normalize(Image{Src: item.URL, Caption: item.Caption})
	case content.Document:
		return fromMap(item)
	case map[string]any:
		return fromMap(content.Document(item))
	case map[string]string:
		doc := make(content.Document, len(item))
		for k, val := range item {
			doc[k] = val
		}
		return fromMap(doc)
	}
	return Image{}, false
}

func fromMap(doc content.Document) (Image, bool) {
	src := firstOf(doc.String("src"), doc.String("url"))
	alt := doc.String("alt")
	return normalize(Image{
		Src:     src,
		Caption: firstOf(doc.String("caption"), alt),
		Alt:     alt,
	})
}

// normalize trims the source and fills alt from the caption, then
// DefaultAlt. It never touches the caption, so an Image can be passed
// through it any number of times.
func normalize(img Image) (Image, bool) {
	img.Src = strings.TrimSpace(img.Src)
	if img.Src == "" {
		return Image{}, false
	}
	img.Alt = firstOf(img.Alt, img.Caption, DefaultAlt)
	return img, true
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
