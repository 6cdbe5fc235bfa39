package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/generation"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/payload"
)

// GenerateListing is POST /api/generate-listing: Stage 1 of the pipeline.
// Images are optional on this endpoint (demo mode sends none); the client
// orchestrator owns the at-least-one-photo guard.
func (a *App) GenerateListing(w http.ResponseWriter, r *http.Request) {
	var req payload.ListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}

	result, err := a.Service.GenerateListing(r.Context(), generation.ListingRequest{
		Images: req.Images,
		Extra:  req.Extra,
		UseAI:  req.UseAI,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
