package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/filebridge/filebridge/internal/middleware"
	"github.com/filebridge/filebridge/internal/setup"
)

// New wires all routes. Download and watch links are public by design; the
// bot-facing intake sits behind the shared internal key and the admin JSON
// API behind the JWT middleware.
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Metrics)

	// media links are shared around; players and dashboards on other
	// origins need the range headers exposed
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "HEAD", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Range", "X-Api-Key"},
		ExposedHeaders: []string{"Content-Length", "Content-Range", "Accept-Ranges"},
	}))

	// media-src covers the player page streaming from our own /dl
	csp := "default-src 'none'; media-src 'self'; style-src 'unsafe-inline'; img-src 'self'"
	r.Use(middleware.SecurityHeaders(deps.Config.Public.SecureCookies, csp))

	h := deps.Handler

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/dl/{token}/{hash}/{name}", h.Stream)
	r.Head("/dl/{token}/{hash}/{name}", h.Stream)
	r.Get("/watch/{token}/{hash}/{name}", h.Watch)

	r.Route("/v1", func(v1 chi.Router) {
		// bot-facing intake
		v1.Group(func(internal chi.Router) {
			internal.Use(middleware.InternalOnly(deps.Config.Private.InternalKey))
			internal.Post("/uploads", h.RegisterUpload)
			internal.Post("/links", h.IssueLinks)
		})

		v1.Post("/admin/login", h.AdminLogin)

		v1.Group(func(admin chi.Router) {
			admin.Use(deps.AuthMiddleware.AdminOnly())
			admin.Get("/admin/files", h.ListFiles)
			admin.Get("/admin/files/stats", h.FileStats)
			admin.Delete("/admin/files/{id}", h.DeleteFile)
		})
	})

	return r
}
