package router

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/discovernortheast/internal/config"
	"github.com/discovernortheast/internal/handler"
)

// multipartOverhead is the room left for form fields and part headers on
// top of the photo itself.
const multipartOverhead = 1 << 20

// SetupRouter configures the Gin engine and routes.
func SetupRouter(cfg config.AppConfig, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(recovery(), requestLogger(), corsMiddleware(cfg.AllowedOrigins()))
	r.MaxMultipartMemory = cfg.MaxUploadBytes + multipartOverhead

	r.GET("/healthz", api.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/states", api.ListStates)
		apiGroup.GET("/states/:slug", api.GetState)
		apiGroup.GET("/cities", api.ListCities)
		apiGroup.GET("/cities/:slug", api.GetCity)
		apiGroup.GET("/cities/:slug/slides", api.CitySlides)
		apiGroup.GET("/slides", api.HeroSlides)

		public := apiGroup.Group("")
		public.Use(rateLimit(cfg.RateLimitPerMinute))
		{
			public.POST("/feedback", api.SubmitFeedback)
			public.POST("/upload", bodyLimit(cfg.MaxUploadBytes+multipartOverhead), api.UploadPhoto)
		}

		admin := apiGroup.Group("/admin")
		{
			admin.POST("/login", rateLimit(cfg.RateLimitPerMinute), api.AdminLogin)
			admin.POST("/update/state", api.UpdateState)
			admin.POST("/update/city", api.UpdateCity)
			admin.POST("/moderate", api.Moderate)
			admin.POST("/feedback", api.ListFeedback)
			admin.POST("/pending", api.ListPending)
		}
	}

	for route, page := range map[string]string{
		"/":      "index.html",
		"/state": "state.html",
		"/city":  "city.html",
		"/admin": "admin.html",
	} {
		r.GET(route, api.Page(page))
		r.GET("/"+page, api.Page(page))
	}

	for _, dir := range []string{"assets", "js", "css"} {
		r.Static("/"+dir, filepath.Join(cfg.WebDir, dir))
	}
	uploads := api.Uploads().Location()
	for _, prefix := range uploads.URLPaths() {
		r.Static(prefix, uploads.Dir)
	}

	return r
}
