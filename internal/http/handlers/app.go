package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/generation"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
)

// ListingService is the slice of the generation facade the handlers need.
type ListingService interface {
	HasKey() bool
	GenerateListing(ctx context.Context, req generation.ListingRequest) (*domain.ListingResult, error)
	GenerateMannequin(ctx context.Context, req generation.MannequinRequest) (*domain.MannequinResult, error)
}

// App is the handler container: the generation facade plus logging.
type App struct {
	Service ListingService
	Logger  *infra.Logger
}

func NewApp(service ListingService, logger *infra.Logger) *App {
	return &App{Service: service, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// fail serializes any pipeline error as the {ok:false, error} contract with
// the status the taxonomy assigns. Nothing here ever panics the process.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.HTTPStatus(err)
	if a.Logger != nil {
		evt := a.Logger.Warn()
		if status >= http.StatusInternalServerError {
			evt = a.Logger.Error()
		}
		evt.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	}
	a.json(w, status, map[string]any{"ok": false, "error": err.Error()})
}

func (a *App) badRequest(w http.ResponseWriter, msg string) {
	a.json(w, http.StatusBadRequest, map[string]any{"ok": false, "error": msg})
}
