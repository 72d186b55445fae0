package carousel

import (
	"time"

	"github.com/discovernortheast/internal/content"
)

// Options configures an Engine. The zero value is a manual carousel with
// no autoplay and no transition lock.
type Options struct {
	AutoPlay         bool
	AutoPlayInterval time.Duration

	// TransitionDuration > 0 holds a lock after each navigation until
	// EndTransition is called.
	TransitionDuration time.Duration
	// AutoEndTransition releases the lock from the clock once
	// TransitionDuration has elapsed instead of waiting for EndTransition.
	AutoEndTransition bool

	ProgressBar  bool
	Thumbnails   bool
	PauseOnHover bool

	Parallax      bool
	ParallaxSpeed float64
	ParallaxScale float64

	// Placeholder replaces a slide image that failed to load.
	Placeholder          string
	ThumbnailPlaceholder string
}

// HeroOptions matches the home page hero slideshow.
func HeroOptions() Options {
	return Options{
		AutoPlay:             true,
		AutoPlayInterval:     6000 * time.Millisecond,
		TransitionDuration:   1500 * time.Millisecond,
		ProgressBar:          true,
		PauseOnHover:         true,
		Parallax:             true,
		ParallaxSpeed:        0.02,
		ParallaxScale:        1.1,
		Placeholder:          content.PlaceholderHero,
		ThumbnailPlaceholder: content.PlaceholderThumb,
	}
}

// CityHeroOptions is the hero slideshow on a city page.
func CityHeroOptions() Options {
	opts := HeroOptions()
	opts.AutoPlayInterval = 5000 * time.Millisecond
	opts.TransitionDuration = 1200 * time.Millisecond
	opts.Placeholder = content.PlaceholderGallery
	return opts
}

// SliderOptions is the plain image slider used on state pages.
func SliderOptions() Options {
	return Options{
		AutoPlay:         true,
		AutoPlayInterval: 5000 * time.Millisecond,
		Placeholder:      content.PlaceholderGallery,
	}
}

func (o Options) withDefaults() Options {
	if o.AutoPlay && o.AutoPlayInterval <= 0 {
		o.AutoPlayInterval = 5000 * time.Millisecond
	}
	if o.Parallax && o.ParallaxSpeed == 0 {
		o.ParallaxSpeed = 0.02
	}
	if o.Parallax && o.ParallaxScale == 0 {
		o.ParallaxScale = 1
	}
	if o.Placeholder == "" {
		o.Placeholder = content.PlaceholderGallery
	}
	if o.ThumbnailPlaceholder == "" {
		o.ThumbnailPlaceholder = content.PlaceholderThumb
	}
	return o
}
