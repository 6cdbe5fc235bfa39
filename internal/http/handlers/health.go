package handlers

import "net/http"

// Health reports readiness and whether the provider credential is configured,
// so the shell can tell the seller to fix the deployment instead of failing
// on the first generation.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"ok":     true,
		"hasKey": a.Service.HasKey(),
	})
}
