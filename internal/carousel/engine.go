// Package carousel implements the slideshow state machine behind the hero
// and gallery sliders. Rendering is left to subscribers; the engine only
// tracks the active index, the transition lock and the autoplay timer.
package carousel

import (
	"sync"
	"time"

	"github.com/discovernortheast/internal/content"
)

// SwipeThreshold is the minimum horizontal travel, in pixels, of a swipe.
const SwipeThreshold = 50

// Key names understood by HandleKey.
const (
	KeyLeft   = "ArrowLeft"
	KeyRight  = "ArrowRight"
	KeyEscape = "Escape"
)

// EventType identifies a state change.
type EventType int

const (
	EventLoaded EventType = iota
	EventSlideChanged
	EventTransitionEnded
	EventPaused
	EventResumed
	EventImageFailed
)

func (t EventType) String() string {
	switch t {
	case EventLoaded:
		return "loaded"
	case EventSlideChanged:
		return "slide_changed"
	case EventTransitionEnded:
		return "transition_ended"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventImageFailed:
		return "image_failed"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers after every state change.
type Event struct {
	Type     EventType
	Index    int
	Previous int
	// Progress is the autoplay progress fraction in [0, 1].
	Progress float64
}

// State is a point-in-time view of the engine.
type State struct {
	Index          int
	Leaving        int
	Count          int
	Animating      bool
	Paused         bool
	AutoPlaying    bool
	Progress       float64
	ShowNavigation bool
	ShowProgress   bool
	ShowThumbnails bool
}

type observer struct {
	id int
	fn func(Event)
}

type queuedEvent struct {
	event     Event
	observers []observer
}

// Engine drives a single active index over a slide list. It is safe for
// concurrent use. Subscribers are called outside the engine lock, one event
// at a time and in the order the state changes happened; a subscriber may
// call back into the engine.
type Engine struct {
	mu    sync.Mutex
	opts  Options
	clock Clock

	slides  []content.CarouselSlide
	failed  map[int]bool
	index   int
	leaving int

	animating bool
	paused    bool

	autoTimer  Timer
	autoGen    uint64
	transTimer Timer
	transGen   uint64

	progressBase  float64
	progressStart time.Time

	observers []observer
	nextObsID int

	queue       []queuedEvent
	dispatching bool
}

// New returns an engine with no slides. A nil clock uses the system clock.
func New(opts Options, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{opts: opts.withDefaults(), clock: clock, leaving: -1}
}

// Subscribe registers fn for every subsequent event and returns a function
// that removes it.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextObsID++
	id := e.nextObsID
	e.observers = append(e.observers, observer{id: id, fn: fn})
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, o := range e.observers {
			if o.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// do runs op under the lock and queues its events. The first caller to
// find the queue idle delivers everything queued until it drains, so a
// concurrent or nested call hands its events to the running dispatcher.
func (e *Engine) do(op func() []Event) {
	e.mu.Lock()
	for _, ev := range op() {
		e.queue = append(e.queue, queuedEvent{event: ev, observers: e.observers})
	}
	if e.dispatching {
		e.mu.Unlock()
		return
	}
	e.dispatching = true
	for len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		e.mu.Unlock()
		for _, o := range next.observers {
			o.fn(next.event)
		}
		e.mu.Lock()
	}
	e.dispatching = false
	e.mu.Unlock()
}

// Load replaces the slide set and activates the first slide without a
// transition. An empty slice leaves the engine untouched.
func (e *Engine) Load(slides []content.CarouselSlide) bool {
	if len(slides) == 0 {
		return false
	}
	e.do(func() []Event {
		e.stopTimers()
		e.slides = append([]content.CarouselSlide(nil), slides...)
		e.failed = nil
		e.index = 0
		e.leaving = -1
		e.animating = false
		e.paused = false
		e.progressBase = 0
		if e.autoplayEnabled() {
			e.armAutoplay(e.opts.AutoPlayInterval)
		}
		return []Event{{Type: EventLoaded, Index: 0, Previous: -1}}
	})
	return true
}

// GoTo activates slide index. It is a no-op when index is out of range,
// already active, or a transition is still in flight.
func (e *Engine) GoTo(index int) bool {
	var moved bool
	e.do(func() []Event {
		var events []Event
		events, moved = e.goTo(index)
		return events
	})
	return moved
}

// Next advances cyclically. No-op with fewer than two slides.
func (e *Engine) Next() bool { return e.step(1) }

// Prev steps back cyclically. No-op with fewer than two slides.
func (e *Engine) Prev() bool { return e.step(-1) }

func (e *Engine) step(delta int) bool {
	var moved bool
	e.do(func() []Event {
		n := len(e.slides)
		if n <= 1 {
			return nil
		}
		var events []Event
		events, moved = e.goTo((e.index + delta + n) % n)
		return events
	})
	return moved
}

func (e *Engine) goTo(index int) ([]Event, bool) {
	if index < 0 || index >= len(e.slides) || index == e.index || e.animating {
		return nil, false
	}
	prev := e.index
	e.index = index
	e.leaving = -1
	if e.opts.TransitionDuration > 0 {
		e.animating = true
		e.leaving = prev
		if e.opts.AutoEndTransition {
			e.armTransition()
		}
	}

	e.progressBase = 0
	e.progressStart = e.clock.Now()
	if e.autoplayEnabled() && !e.paused {
		e.armAutoplay(e.opts.AutoPlayInterval)
	}
	return []Event{{Type: EventSlideChanged, Index: index, Previous: prev}}, true
}

// EndTransition releases the transition lock taken by the last navigation.
func (e *Engine) EndTransition() bool {
	var ended bool
	e.do(func() []Event {
		events := e.endTransition()
		ended = len(events) > 0
		return events
	})
	return ended
}

func (e *Engine) endTransition() []Event {
	if !e.animating {
		return nil
	}
	if e.transTimer != nil {
		e.transTimer.Stop()
		e.transTimer = nil
	}
	e.transGen++
	e.animating = false
	leaving := e.leaving
	e.leaving = -1
	return []Event{{Type: EventTransitionEnded, Index: e.index, Previous: leaving}}
}

// Pause stops autoplay and freezes the progress fraction.
func (e *Engine) Pause() bool {
	var changed bool
	e.do(func() []Event {
		if e.paused {
			return nil
		}
		e.progressBase = e.progress()
		e.paused = true
		e.stopAutoplay()
		changed = true
		return []Event{{Type: EventPaused, Index: e.index, Previous: -1, Progress: e.progressBase}}
	})
	return changed
}

// Resume restarts autoplay for the remainder of the interval captured at
// Pause, so the progress bar continues from where it stopped.
func (e *Engine) Resume() bool {
	var changed bool
	e.do(func() []Event {
		if !e.paused {
			return nil
		}
		e.paused = false
		if e.autoplayEnabled() {
			remaining := time.Duration((1 - e.progressBase) * float64(e.opts.AutoPlayInterval))
			e.armAutoplay(remaining)
		}
		changed = true
		return []Event{{Type: EventResumed, Index: e.index, Previous: -1, Progress: e.progressBase}}
	})
	return changed
}

// PointerEnter pauses when the carousel pauses on hover.
func (e *Engine) PointerEnter() {
	if e.opts.PauseOnHover {
		e.Pause()
	}
}

// PointerLeave resumes a hover pause and returns the neutral parallax offset.
func (e *Engine) PointerLeave() Offset {
	if e.opts.PauseOnHover {
		e.Resume()
	}
	return Neutral(e.opts.ParallaxScale)
}

// PointerMove returns the parallax offset of the background layer for a
// pointer at (x, y) inside a width x height container. ok is false when
// parallax is disabled.
func (e *Engine) PointerMove(x, y, width, height float64) (offset Offset, ok bool) {
	if !e.opts.Parallax {
		return Offset{}, false
	}
	return Parallax(x, y, width, height, e.opts.ParallaxSpeed, e.opts.ParallaxScale), true
}

// Swipe navigates on a horizontal gesture of at least SwipeThreshold pixels.
// dx and dy are the pointer travel from touch start to touch end; dragging
// left shows the next slide. Vertical-dominant gestures are ignored.
func (e *Engine) Swipe(dx, dy float64) bool {
	if abs(dx) <= abs(dy) || abs(dx) <= SwipeThreshold {
		return false
	}
	if dx < 0 {
		return e.Next()
	}
	return e.Prev()
}

// HandleKey maps the arrow keys to Prev and Next. It reports whether the
// key was consumed.
func (e *Engine) HandleKey(key string) bool {
	switch key {
	case KeyLeft:
		e.Prev()
		return true
	case KeyRight:
		e.Next()
		return true
	}
	return false
}

// ImageFailed swaps slide index to the placeholder image. Navigation state
// is not affected.
func (e *Engine) ImageFailed(index int) {
	e.do(func() []Event {
		if index < 0 || index >= len(e.slides) || e.failed[index] {
			return nil
		}
		if e.failed == nil {
			e.failed = make(map[int]bool)
		}
		e.failed[index] = true
		return []Event{{Type: EventImageFailed, Index: index, Previous: -1}}
	})
}

// Slides returns the slide list as it should be rendered.
func (e *Engine) Slides() []content.CarouselSlide {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]content.CarouselSlide, len(e.slides))
	for i := range e.slides {
		out[i] = e.slide(i)
	}
	return out
}

// Slide returns slide index as it should be rendered.
func (e *Engine) Slide(index int) (content.CarouselSlide, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.slides) {
		return content.CarouselSlide{}, false
	}
	return e.slide(index), true
}

// Thumbnail returns the thumbnail image for slide index.
func (e *Engine) Thumbnail(index int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.slides) {
		return ""
	}
	if e.failed[index] {
		return e.opts.ThumbnailPlaceholder
	}
	return e.slides[index].Image
}

func (e *Engine) slide(i int) content.CarouselSlide {
	s := e.slides[i]
	if e.failed[i] {
		s.Image = e.opts.Placeholder
	}
	return s
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Index:          e.index,
		Leaving:        e.leaving,
		Count:          len(e.slides),
		Animating:      e.animating,
		Paused:         e.paused,
		AutoPlaying:    e.autoTimer != nil,
		Progress:       e.progress(),
		ShowNavigation: len(e.slides) > 1,
		ShowProgress:   e.opts.ProgressBar && e.autoplayEnabled(),
		ShowThumbnails: e.opts.Thumbnails && len(e.slides) > 1,
	}
}

// Stop cancels every pending timer. The engine can be reused with Load.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimers()
}

func (e *Engine) autoplayEnabled() bool {
	return e.opts.AutoPlay && len(e.slides) > 1
}

func (e *Engine) progress() float64 {
	if !e.autoplayEnabled() {
		return 0
	}
	if e.paused || e.autoTimer == nil {
		return e.progressBase
	}
	elapsed := e.clock.Now().Sub(e.progressStart)
	p := e.progressBase + float64(elapsed)/float64(e.opts.AutoPlayInterval)
	if p > 1 {
		return 1
	}
	return p
}

func (e *Engine) armAutoplay(after time.Duration) {
	e.stopAutoplay()
	e.autoGen++
	gen := e.autoGen
	e.progressStart = e.clock.Now()
	e.autoTimer = e.clock.AfterFunc(after, func() { e.autoAdvance(gen) })
}

func (e *Engine) autoAdvance(gen uint64) {
	e.do(func() []Event {
		if gen != e.autoGen || e.paused {
			return nil
		}
		e.autoTimer = nil
		n := len(e.slides)
		events, moved := e.goTo((e.index + 1) % n)
		if !moved {
			e.progressBase = 0
			e.armAutoplay(e.opts.AutoPlayInterval)
		}
		return events
	})
}

func (e *Engine) armTransition() {
	if e.transTimer != nil {
		e.transTimer.Stop()
	}
	e.transGen++
	gen := e.transGen
	e.transTimer = e.clock.AfterFunc(e.opts.TransitionDuration, func() {
		e.do(func() []Event {
			if gen != e.transGen {
				return nil
			}
			e.transTimer = nil
			return e.endTransition()
		})
	})
}

func (e *Engine) stopAutoplay() {
	if e.autoTimer != nil {
		e.autoTimer.Stop()
		e.autoTimer = nil
	}
	e.autoGen++
}

func (e *Engine) stopTimers() {
	e.stopAutoplay()
	if e.transTimer != nil {
		e.transTimer.Stop()
		e.transTimer = nil
	}
	e.transGen++
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
