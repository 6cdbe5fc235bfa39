package generation

import (
	"encoding/base64"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/imaging"
)

// demoListing is the fixed Stage 1 answer when the seller opted out of AI.
// Deterministic on purpose: the demo must behave identically offline, in CI
// and in front of a reviewer.
func demoListing() *domain.ListingResult {
	return &domain.ListingResult{
		Title:           "lowercase title (demo mode)",
		Description:     "demo mode description. enable ai to generate a real one from your photos.",
		Price:           "—",
		MannequinPrompt: FallbackGarment,
	}
}

// demoPixelPNG is a 1x1 transparent PNG used by DemoMannequinDataURL.
const demoPixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// DemoMannequinDataURL returns a deterministic placeholder image data URL for
// shells that want to show the mannequin slot in demo mode.
func DemoMannequinDataURL() string {
	raw, _ := base64.StdEncoding.DecodeString(demoPixelPNG)
	return dataURLPNG(raw)
}

func dataURLPNG(raw []byte) string {
	return imaging.FormatDataURL("image/png", raw)
}
