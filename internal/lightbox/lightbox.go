// Package lightbox implements the modal image viewer used by city galleries.
package lightbox

import (
	"sync"

	"github.com/discovernortheast/internal/carousel"
	"github.com/discovernortheast/internal/content"
)

const (
	DefaultAlt       = "Gallery image"
	UnavailableAlt   = "Image not available"
	PlaceholderImage = content.PlaceholderGallery
)

// Image is a normalised lightbox entry.
type Image struct {
	Src     string `json:"src"`
	Caption string `json:"caption"`
	Alt     string `json:"alt"`
}

// Options toggles the optional interactions.
type Options struct {
	ShowCaption bool
	Keyboard    bool
	Swipe       bool
}

// DefaultOptions enables captions, keyboard and swipe.
func DefaultOptions() Options {
	return Options{ShowCaption: true, Keyboard: true, Swipe: true}
}

// View is what the renderer needs to draw the modal.
type View struct {
	Open           bool
	Index          int
	Count          int
	Image          Image
	Loading        bool
	ShowCaption    bool
	ShowNavigation bool
	ScrollLocked   bool
}

// Lightbox holds one gallery's viewer state. Each gallery owns its own
// instance.
type Lightbox struct {
	mu      sync.Mutex
	opts    Options
	images  []Image
	index   int
	open    bool
	loading bool
	shown   Image
}

// New returns a closed lightbox with no images.
func New(opts Options) *Lightbox {
	return &Lightbox{opts: opts}
}

// SetImages replaces the image list. Entries without a source are dropped.
func (l *Lightbox) SetImages(images []Image) {
	normalised := make([]Image, 0, len(images))
	for _, img := range images {
		if img, ok := normalize(img); ok {
			normalised = append(normalised, img)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.images = normalised
	if l.index >= len(l.images) {
		l.index = 0
	}
	if l.open && len(l.images) == 0 {
		l.open = false
	}
}

// Open shows the image at index, clamped into range. Nothing happens when
// the list is empty.
func (l *Lightbox) Open(index int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.images) == 0 {
		return false
	}
	l.index = clamp(index, 0, len(l.images)-1)
	l.open = true
	l.show()
	return true
}

// Close hides the modal and releases the page scroll lock.
func (l *Lightbox) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
}

// Next advances cyclically. No-op with fewer than two images.
func (l *Lightbox) Next() bool { return l.step(1) }

// Prev steps back cyclically. No-op with fewer than two images.
func (l *Lightbox) Prev() bool { return l.step(-1) }

func (l *Lightbox) step(delta int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.images)
	if n <= 1 {
		return false
	}
	l.index = (l.index + delta + n) % n
	l.show()
	return true
}

func (l *Lightbox) show() {
	l.shown = l.images[l.index]
	l.loading = true
}

// HandleKey handles Escape and the arrow keys while the modal is open.
func (l *Lightbox) HandleKey(key string) bool {
	if !l.opts.Keyboard || !l.IsOpen() {
		return false
	}
	switch key {
	case carousel.KeyEscape:
		l.Close()
	case carousel.KeyLeft:
		l.Prev()
	case carousel.KeyRight:
		l.Next()
	default:
		return false
	}
	return true
}

// BackdropClick closes the modal; clicks on the image itself never reach it.
func (l *Lightbox) BackdropClick() {
	l.Close()
}

// Swipe navigates on a horizontal drag of more than carousel.SwipeThreshold
// pixels; dragging left shows the next image.
func (l *Lightbox) Swipe(dx float64) bool {
	if !l.opts.Swipe || !l.IsOpen() {
		return false
	}
	switch {
	case dx < -carousel.SwipeThreshold:
		return l.Next()
	case dx > carousel.SwipeThreshold:
		return l.Prev()
	}
	return false
}

// ImageLoaded clears the loading state. A failed load swaps in the
// placeholder.
func (l *Lightbox) ImageLoaded(ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if !ok {
		l.shown.Src = PlaceholderImage
		l.shown.Alt = UnavailableAlt
	}
}

// IsOpen reports whether the modal is showing.
func (l *Lightbox) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// NavigationVisible reports whether prev/next controls are shown.
func (l *Lightbox) NavigationVisible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.images) > 1
}

// ScrollLocked reports whether page scroll is disabled.
func (l *Lightbox) ScrollLocked() bool {
	return l.IsOpen()
}

// View returns the current render state.
func (l *Lightbox) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return View{
		Open:           l.open,
		Index:          l.index,
		Count:          len(l.images),
		Image:          l.shown,
		Loading:        l.loading,
		ShowCaption:    l.opts.ShowCaption && l.shown.Caption != "",
		ShowNavigation: len(l.images) > 1,
		ScrollLocked:   l.open,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
