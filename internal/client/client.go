// Package client is a typed HTTP client for the site's JSON API. GET
// responses are cached per URL for a bounded time; every admin mutation
// drops the whole cache.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	json "github.com/goccy/go-json"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/logging"
	"github.com/discovernortheast/internal/metrics"
)

const (
	DefaultCacheTTL      = 5 * time.Minute
	DefaultCacheMaxBytes = 8 << 20
	maxResponseBytes     = 16 << 20
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	// BaseURL is the site root, e.g. http://localhost:3000.
	BaseURL       string
	HTTP          HTTPDoer
	CacheTTL      time.Duration
	CacheMaxBytes int64
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one site. It is safe for concurrent use.
type Client struct {
	base string
	http HTTPDoer
	ttl  time.Duration

	// cacheMu lets Get and Set run together but excludes them from Clear,
	// which ristretto does not allow to overlap with other calls.
	cacheMu sync.RWMutex
	cache   *ristretto.Cache[string, []byte]
}

// New builds a Client. Call Close to release the cache.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("client: invalid base url: %w", err)
	}
	doer := opts.HTTP
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	maxBytes := opts.CacheMaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultCacheMaxBytes
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters:        10_000,
		MaxCost:            maxBytes,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("client: create cache: %w", err)
	}

	return &Client{base: base, http: doer, ttl: ttl, cache: cache}, nil
}

// Close stops the cache's background goroutines.
func (c *Client) Close() {
	c.cache.Close()
}

// InvalidateCache drops every cached response.
func (c *Client) InvalidateCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	c.cache.Clear()
}

// States lists every state.
func (c *Client) States(ctx context.Context) ([]content.Document, error) {
	var out []content.Document
	return out, c.getCached(ctx, "/api/states", &out)
}

// State returns a state with its cities joined in as citiesData.
func (c *Client) State(ctx context.Context, slug string) (content.Document, error) {
	var out content.Document
	return out, c.getCached(ctx, "/api/states/"+url.PathEscape(slug), &out)
}

// Cities lists every city.
func (c *Client) Cities(ctx context.Context) ([]content.Document, error) {
	var out []content.Document
	return out, c.getCached(ctx, "/api/cities", &out)
}

// City returns one city.
func (c *Client) City(ctx context.Context, slug string) (content.Document, error) {
	var out content.Document
	return out, c.getCached(ctx, "/api/cities/"+url.PathEscape(slug), &out)
}

// HeroSlides returns the home page slideshow.
func (c *Client) HeroSlides(ctx context.Context) ([]content.CarouselSlide, error) {
	var out []content.CarouselSlide
	return out, c.getCached(ctx, "/api/slides", &out)
}

// CitySlides returns a city's hero slideshow.
func (c *Client) CitySlides(ctx context.Context, slug string) ([]content.CarouselSlide, error) {
	var out []content.CarouselSlide
	return out, c.getCached(ctx, "/api/cities/"+url.PathEscape(slug)+"/slides", &out)
}

// Feedback is a visitor message.
type Feedback struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// SubmitFeedback posts a visitor message.
func (c *Client) SubmitFeedback(ctx context.Context, fb Feedback) error {
	return c.postJSON(ctx, "/api/feedback", fb, nil, "Failed to submit feedback")
}

// UploadImage sends a photo for moderation and returns the pending entry.
func (c *Client) UploadImage(ctx context.Context, citySlug, filename string, photo io.Reader, caption string) (content.GalleryImage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename=%q`, filepath.Base(filename)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return content.GalleryImage{}, err
	}
	if _, err := io.Copy(part, photo); err != nil {
		return content.GalleryImage{}, fmt.Errorf("client: read photo: %w", err)
	}
	if err := w.WriteField("citySlug", citySlug); err != nil {
		return content.GalleryImage{}, err
	}
	if err := w.WriteField("caption", caption); err != nil {
		return content.GalleryImage{}, err
	}
	if err := w.Close(); err != nil {
		return content.GalleryImage{}, err
	}

	var out struct {
		Image content.GalleryImage `json:"image"`
	}
	err = c.send(ctx, http.MethodPost, "/api/upload", w.FormDataContentType(), &buf, &out, "Failed to upload image")
	return out.Image, err
}

func (c *Client) getCached(ctx context.Context, path string, dst any) error {
	key := c.base + path
	if body, ok := c.cached(key); ok {
		metrics.RecordCacheLookup(true)
		return json.Unmarshal(body, dst)
	}
	metrics.RecordCacheLookup(false)

	body, err := c.do(ctx, http.MethodGet, path, "", nil, "Failed to load data")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	c.store(key, body)
	return nil
}

func (c *Client) cached(key string) ([]byte, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	return c.cache.Get(key)
}

func (c *Client) store(key string, body []byte) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	if c.cache.SetWithTTL(key, body, int64(len(body)), c.ttl) {
		c.cache.Wait()
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload, dst any, fallback string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("client: encode %s: %w", path, err)
	}
	return c.send(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), dst, fallback)
}

func (c *Client) send(ctx context.Context, method, path, contentType string, body io.Reader, dst any, fallback string) error {
	resp, err := c.do(ctx, method, path, contentType, body, fallback)
	if err != nil {
		return err
	}
	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(resp, dst); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, fallback string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("client: read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: fallback}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		logging.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("api request failed")
		return nil, apiErr
	}
	return data, nil
}
