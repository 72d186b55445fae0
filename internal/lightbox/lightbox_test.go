package lightbox

import (
	"testing"
	"time"

	"github.com/discovernortheast/internal/carousel"
	"github.com/discovernortheast/internal/content"
)

func threeImages() []Image {
	return Normalize([]any{
		"/assets/a.jpg",
		map[string]any{"url": "/assets/b.jpg", "caption": "Dzukou Valley"},
		content.GalleryImage{URL: "/uploads/c.jpg", Caption: "Sunset"},
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Image
		ok   bool
	}{
		{name: "plain url", in: "/assets/a.jpg", want: Image{Src: "/assets/a.jpg", Alt: DefaultAlt}, ok: true},
		{name: "src and alt", in: map[string]any{"src": "/a.jpg", "alt": "Loktak"}, want: Image{Src: "/a.jpg", Caption: "Loktak", Alt: "Loktak"}, ok: true},
		{name: "url and caption", in: map[string]string{"url": "/b.jpg", "caption": "Hornbill"}, want: Image{Src: "/b.jpg", Caption: "Hornbill", Alt: "Hornbill"}, ok: true},
		{name: "src wins over url", in: content.Document{"src": "/s.jpg", "url": "/u.jpg"}, want: Image{Src: "/s.jpg", Alt: DefaultAlt}, ok: true},
		{name: "gallery image", in: content.GalleryImage{URL: "/g.jpg"}, want: Image{Src: "/g.jpg", Alt: DefaultAlt}, ok: true},
		{name: "no source", in: map[string]any{"caption": "orphan"}, ok: false},
		{name: "unsupported", in: 42, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromValue(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("expected %+v/%v, got %+v/%v", tt.want, tt.ok, got, ok)
			}
		})
	}
}

func TestNormalizedImagesKeepEmptyCaption(t *testing.T) {
	once := Normalize([]any{"/a.jpg", map[string]any{"src": "/b.jpg", "alt": "Loktak"}})
	twice := Normalize(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("normalising again changed %+v into %+v", once[i], twice[i])
		}
	}

	lb := New(DefaultOptions())
	lb.SetImages(Normalize([]string{"/a.jpg"}))
	lb.Open(0)
	if v := lb.View(); v.ShowCaption || v.Image.Caption != "" || v.Image.Alt != DefaultAlt {
		t.Fatalf("uncaptioned image should show no caption, got %+v", v)
	}
}

func TestOpenClampsIndex(t *testing.T) {
	lb := New(DefaultOptions())
	if lb.Open(0) {
		t.Fatalf("open with no images should be refused")
	}

	lb.SetImages(threeImages())
	for _, tt := range []struct{ in, want int }{{-5, 0}, {1, 1}, {3, 2}, {100, 2}} {
		lb.Open(tt.in)
		if v := lb.View(); !v.Open || v.Index != tt.want {
			t.Fatalf("open(%d): expected index %d, got %+v", tt.in, tt.want, v)
		}
	}
	if !lb.ScrollLocked() {
		t.Fatalf("scroll should be locked while open")
	}
	lb.Close()
	if lb.ScrollLocked() || lb.IsOpen() {
		t.Fatalf("close should release scroll")
	}
}

func TestNavigationIsCyclic(t *testing.T) {
	lb := New(DefaultOptions())
	lb.SetImages(threeImages())
	lb.Open(2)

	lb.Next()
	if got := lb.View(); got.Index != 0 || got.Image.Src != "/assets/a.jpg" {
		t.Fatalf("expected wrap to first image, got %+v", got)
	}
	lb.Prev()
	if got := lb.View().Index; got != 2 {
		t.Fatalf("expected wrap back to 2, got %d", got)
	}

	single := New(DefaultOptions())
	single.SetImages(Normalize([]string{"/only.jpg"}))
	single.Open(0)
	if single.Next() || single.Prev() || single.NavigationVisible() {
		t.Fatalf("single image should disable navigation")
	}
}

func TestKeysOnlyWhileOpen(t *testing.T) {
	lb := New(DefaultOptions())
	lb.SetImages(threeImages())

	if lb.HandleKey(carousel.KeyRight) {
		t.Fatalf("closed lightbox consumed a key")
	}

	lb.Open(0)
	lb.HandleKey(carousel.KeyRight)
	if got := lb.View().Index; got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	lb.HandleKey(carousel.KeyLeft)
	lb.HandleKey(carousel.KeyLeft)
	if got := lb.View().Index; got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	if lb.HandleKey("Tab") {
		t.Fatalf("unrelated key consumed")
	}
	if !lb.HandleKey(carousel.KeyEscape) || lb.IsOpen() {
		t.Fatalf("escape should close")
	}
}

func TestLightboxTakesKeysBeforeCarousel(t *testing.T) {
	var router carousel.KeyRouter
	slider := carousel.New(carousel.SliderOptions(), carousel.NewFakeClock(time.Unix(0, 0)))
	slider.Load([]content.CarouselSlide{{Image: "/a.jpg"}, {Image: "/b.jpg"}})
	lb := New(DefaultOptions())
	lb.SetImages(threeImages())

	router.Mount(slider)
	router.Mount(lb)

	router.Dispatch(carousel.KeyRight)
	if slider.Snapshot().Index != 1 {
		t.Fatalf("closed lightbox should let the carousel handle keys")
	}

	lb.Open(0)
	router.Dispatch(carousel.KeyRight)
	if slider.Snapshot().Index != 1 || lb.View().Index != 1 {
		t.Fatalf("open lightbox should own the arrow keys")
	}
}

func TestBackdropAndSwipe(t *testing.T) {
	lb := New(DefaultOptions())
	lb.SetImages(threeImages())
	lb.Open(0)

	if lb.Swipe(-30) {
		t.Fatalf("short swipe should be ignored")
	}
	lb.Swipe(-80)
	if got := lb.View().Index; got != 1 {
		t.Fatalf("left swipe should go next, index %d", got)
	}
	lb.Swipe(80)
	if got := lb.View().Index; got != 0 {
		t.Fatalf("right swipe should go back, index %d", got)
	}
	if !lb.IsOpen() {
		t.Fatalf("swipe must not dismiss")
	}

	lb.BackdropClick()
	if lb.IsOpen() {
		t.Fatalf("backdrop click should close")
	}
}

func TestImageLoaded(t *testing.T) {
	lb := New(DefaultOptions())
	lb.SetImages(threeImages())
	lb.Open(1)

	v := lb.View()
	if !v.Loading || !v.ShowCaption || v.Image.Caption != "Dzukou Valley" {
		t.Fatalf("unexpected view while loading %+v", v)
	}

	lb.ImageLoaded(false)
	v = lb.View()
	if v.Loading || v.Image.Src != PlaceholderImage || v.Image.Alt != UnavailableAlt {
		t.Fatalf("expected placeholder, got %+v", v)
	}

	lb.Next()
	lb.ImageLoaded(true)
	v = lb.View()
	if v.Loading || v.Image.Src != "/uploads/c.jpg" {
		t.Fatalf("unexpected view after load %+v", v)
	}

	lb.Open(0)
	if lb.View().ShowCaption {
		t.Fatalf("caption should be hidden for images without one")
	}
}
