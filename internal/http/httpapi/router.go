package httpapi

import (
	"bytes"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/http/handlers"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/middleware"
)

// NewRouter wires the API surface plus (optionally) the static shell. Pass a
// nil shell when another host serves the front end.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger, shell fs.FS) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		middleware.Logger(logger),
		chimw.Recoverer,
		middleware.CORS,
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
			r.Use(maxBody(cfg.MaxBodyBytes))
			r.Post("/generate-listing", app.GenerateListing)
			r.Post("/generate-mannequin", app.GenerateMannequin)
		})
	})

	if shell != nil {
		r.NotFound(shellHandler(shell))
	}

	return r
}

// maxBody bounds the request body; generation payloads embed base64 images
// and grow fast.
func maxBody(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// shellHandler serves the PWA shell with an SPA fallback to index.html for
// unknown paths.
func shellHandler(shell fs.FS) http.HandlerFunc {
	fileServer := http.FileServer(http.FS(shell))
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if len(name) > 0 && name[0] == '/' {
			name = name[1:]
		}
		if name == "" {
			name = "index.html"
		}
		if _, err := fs.Stat(shell, name); err != nil {
			serveIndex(w, r, shell)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

// serveIndex serves index.html from the shell; equivalent to
// http.ServeFileFS(w, r, shell, "index.html"), which needs Go 1.22.
func serveIndex(w http.ResponseWriter, r *http.Request, shell fs.FS) {
	f, err := shell.Open("index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
		return
	}
	modtime := time.Time{}
	if st, err := f.Stat(); err == nil {
		modtime = st.ModTime()
	}
	http.ServeContent(w, r, "index.html", modtime, bytes.NewReader(data))
}
