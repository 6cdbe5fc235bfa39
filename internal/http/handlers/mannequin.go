package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/generation"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/payload"
)

// GenerateMannequin is POST /api/generate-mannequin: Stage 2 of the pipeline.
// Reference images are required here; a mannequin call without them would let
// the provider invent a garment.
func (a *App) GenerateMannequin(w http.ResponseWriter, r *http.Request) {
	var req payload.MannequinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.badRequest(w, "invalid request body")
		return
	}
	if len(req.Images) == 0 {
		a.fail(w, r, domain.ErrNoImages)
		return
	}

	result, err := a.Service.GenerateMannequin(r.Context(), generation.MannequinRequest{
		Images:      req.Images,
		Description: req.Description,
		Gender:      req.Gender,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"ok":             true,
		"image_data_url": result.ImageDataURL,
	})
}
