package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/discovernortheast/internal/content"
	"github.com/discovernortheast/internal/service"
	"github.com/discovernortheast/internal/store"
)

const testPassword = "letmein"

const fixtureStates = `[
	{"slug":"nagaland","name":"Nagaland","description":"Land of festivals","history":"Old","festivals":["Hornbill"],"cities":["kohima"]},
	{"slug":"sikkim","name":"Sikkim","description":"Himalayan kingdom","cities":["gangtok"]}
]`

const fixtureCities = `[
	{"slug":"kohima","stateSlug":"nagaland","name":"Kohima","summary":"War cemetery","gallery":[
		{"id":"a","url":"/assets/kohima-1.jpg","caption":"Cemetery","moderated":true},
		{"id":"b","url":"/assets/kohima-2.jpg","caption":"Market","moderated":true},
		{"id":"c","url":"/uploads/visitor.jpg","caption":"Sunset","moderated":false}
	]},
	{"slug":"gangtok","stateSlug":"sikkim","name":"Gangtok","summary":"MG Marg"}
]`

type testEnv struct {
	api       *API
	engine    *gin.Engine
	store     *store.MemoryStore
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	if err := st.Init(context.Background(), content.CollectionStates, content.CollectionCities, content.CollectionFeedback); err != nil {
		t.Fatalf("init store: %v", err)
	}
	st.Seed(content.CollectionStates, decodeFixture(t, fixtureStates))
	st.Seed(content.CollectionCities, decodeFixture(t, fixtureCities))

	gate, err := service.NewAdminGate(testPassword, "", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("admin gate: %v", err)
	}

	uploadDir := filepath.Join(t.TempDir(), "uploads")
	api := NewAPI(Options{
		Store:   st,
		Gate:    gate,
		Uploads: service.UploadLocation{Dir: uploadDir, URLPath: "/uploads"},
		WebDir:  t.TempDir(),
	})

	return &testEnv{api: api, engine: newTestEngine(api), store: st, uploadDir: uploadDir}
}

func newTestEngine(api *API) *gin.Engine {
	r := gin.New()
	r.GET("/healthz", api.Health)
	r.GET("/api/states", api.ListStates)
	r.GET("/api/states/:slug", api.GetState)
	r.GET("/api/cities", api.ListCities)
	r.GET("/api/cities/:slug", api.GetCity)
	r.GET("/api/cities/:slug/slides", api.CitySlides)
	r.GET("/api/slides", api.HeroSlides)
	r.POST("/api/feedback", api.SubmitFeedback)
	r.POST("/api/upload", api.UploadPhoto)
	r.POST("/api/admin/login", api.AdminLogin)
	r.POST("/api/admin/update/state", api.UpdateState)
	r.POST("/api/admin/update/city", api.UpdateCity)
	r.POST("/api/admin/moderate", api.Moderate)
	r.POST("/api/admin/feedback", api.ListFeedback)
	r.POST("/api/admin/pending", api.ListPending)
	r.GET("/", api.Page("index.html"))
	return r
}

func decodeFixture(t *testing.T, raw string) []content.Document {
	t.Helper()
	var docs []content.Document
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return docs
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rr.Code, rr.Body.String())
	}
	var body map[string]any
	decodeBody(t, rr, &body)
	if body["error"] != message {
		t.Fatalf("expected error %q, got %v", message, body["error"])
	}
}

func (e *testEnv) city(t *testing.T, slug string) content.Document {
	t.Helper()
	rr := e.do(t, http.MethodGet, "/api/cities/"+slug, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get city: %d %s", rr.Code, rr.Body.String())
	}
	var city content.Document
	decodeBody(t, rr, &city)
	return city
}
