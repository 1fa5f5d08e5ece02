package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	rh "github.com/lakonic/pressroom/route-handlers"
	"github.com/lakonic/pressroom/webutil"
)

const (
	apiBasePath     = "/api"
	contentBasePath = "/content"
)

const (
	paramContentType = "contentType"
	paramSlug        = "slug"
)

const requestTimeout = 5 * time.Minute // publish waits on remote conversion

func SetupRoutes(contentHandler *rh.ContentHandler) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(RequestID)
	r.Use(RealIP)
	r.Use(Logger)    // Log every request
	r.Use(Recoverer) // Recover from panics
	r.Use(Timeout(requestTimeout))

	r.Route(apiBasePath, func(r chi.Router) {
		configureContentRoutes(r, contentHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Content Routes ---
//
// Workflow operations are verbs under the content type; catalog operations
// address published records by slug.
func configureContentRoutes(r chi.Router, handler *rh.ContentHandler) {
	typePath := contentBasePath + pathWithParam("", paramContentType) // e.g. "/content/{contentType}"

	r.Route(typePath, func(r chi.Router) {
		// Workflow
		r.Post("/upload", webutil.MakeHandler(handler.HandleUpload))
		r.Post("/publish", webutil.MakeHandler(handler.HandlePublish))
		r.Get("/preview", webutil.MakeHandler(handler.HandlePreview))
		r.Get("/workflow", webutil.MakeHandler(handler.HandleWorkflowStatus))
		r.Post("/reset", webutil.MakeHandler(handler.HandleReset))

		// Catalog
		r.Get("/", webutil.MakeHandler(handler.HandleList))
		r.Route(pathWithParam("", paramSlug), func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGet))
			r.Delete("/", webutil.MakeHandler(handler.HandleDelete))
		})
	})
}

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
