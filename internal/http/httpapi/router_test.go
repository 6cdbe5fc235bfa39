package httpapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/client"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/generation"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/http/handlers"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/imaging"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/pipeline"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/providers/openai"
)

func testConfig() *infra.Config {
	return &infra.Config{
		MaxBodyBytes:    80 << 20,
		RateLimitPerMin: 1000,
	}
}

func discardLogger() infra.Logger {
	return infra.Logger(zerolog.New(io.Discard))
}

// newProviderStub fakes the two provider operations well enough for a full
// pipeline pass.
func newProviderStub(t *testing.T) *httptest.Server {
	t.Helper()
	listingJSON := `{"title":"Blue Denim Jacket","description":"cotton, size m, straight fit, blue, good condition, small scuff on cuff #jacket #denim","price":"25€ (range: 20-30€)","mannequin_prompt":"a blue denim jacket"}`

	var pngBuf bytes.Buffer
	frame := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := png.Encode(&pngBuf, frame); err != nil {
		t.Fatalf("encode stub png: %v", err)
	}
	b64 := base64.StdEncoding.EncodeToString(pngBuf.Bytes())

	mux := http.NewServeMux()
	mux.HandleFunc("/responses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[{"type":"message","content":[{"type":"output_text","text":` + jsonQuote(listingJSON) + `}]}]}`))
	})
	mux.HandleFunc("/images/edits", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"` + b64 + `"}]}`))
	})
	return httptest.NewServer(mux)
}

func jsonQuote(s string) string {
	var b bytes.Buffer
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 30, G: 60, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestEndToEndThreePhotoRun(t *testing.T) {
	provider := newProviderStub(t)
	defer provider.Close()

	logger := discardLogger()
	service := generation.NewService(openai.NewClient(openai.Options{
		APIKey:     "sk-test",
		BaseURL:    provider.URL,
		HTTPClient: provider.Client(),
		Logger:     &logger,
	}), &logger)

	app := handlers.NewApp(service, &logger)
	srv := httptest.NewServer(NewRouter(app, testConfig(), logger, nil))
	defer srv.Close()

	// Client side: normalize three oversized phone photos.
	raws := []imaging.RawImage{
		{Data: encodeJPEG(t, 2400, 1800), MIME: "image/jpeg", Filename: "a.jpg"},
		{Data: encodeJPEG(t, 1800, 2400), MIME: "image/jpeg", Filename: "b.jpg"},
		{Data: encodeJPEG(t, 800, 600), MIME: "image/jpeg", Filename: "c.jpg"},
	}
	images := imaging.NormalizeAll(raws, imaging.Options{})
	for i, u := range images {
		mime, data, err := imaging.ParseDataURL(u)
		if err != nil || mime != imaging.MIMEJPEG {
			t.Fatalf("image %d not normalized: mime=%q err=%v", i, mime, err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("image %d undecodable: %v", i, err)
		}
		if cfg.Width > 1600 || cfg.Height > 1600 {
			t.Fatalf("image %d exceeds 1600px: %dx%d", i, cfg.Width, cfg.Height)
		}
	}

	api := client.New(srv.URL, srv.Client())
	orch := pipeline.New(api, &logger)

	res, err := orch.Execute(context.Background(), images, pipeline.Options{
		UseAI:        true,
		UseMannequin: true,
		Gender:       "femme",
	})
	if err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	if res.Listing.Title != "blue denim jacket" {
		t.Fatalf("title must be lowercased on the server: %q", res.Listing.Title)
	}
	for name, v := range map[string]string{
		"description":      res.Listing.Description,
		"price":            res.Listing.Price,
		"mannequin_prompt": res.Listing.MannequinPrompt,
	} {
		if v == "" {
			t.Fatalf("%s must be non-empty", name)
		}
	}
	if res.MannequinOutcome != pipeline.MannequinGenerated {
		t.Fatalf("mannequin outcome mismatch: %s (%s)", res.MannequinOutcome, res.MannequinNote)
	}
	if !strings.HasPrefix(res.Mannequin.ImageDataURL, "data:image/png;base64,") {
		t.Fatalf("mannequin image must be a PNG data URL: %.40q", res.Mannequin.ImageDataURL)
	}
}

func TestRouterBodyLimit(t *testing.T) {
	logger := discardLogger()
	service := generation.NewService(openai.NewClient(openai.Options{Logger: &logger}), &logger)
	app := handlers.NewApp(service, &logger)

	cfg := testConfig()
	cfg.MaxBodyBytes = 1 << 10
	srv := httptest.NewServer(NewRouter(app, cfg, logger, nil))
	defer srv.Close()

	oversized := `{"images":["` + strings.Repeat("A", 4<<10) + `"]}`
	resp, err := srv.Client().Post(srv.URL+"/api/generate-listing", "application/json", strings.NewReader(oversized))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("oversized body should be rejected, got %d", resp.StatusCode)
	}
}

func TestRouterServesShellWithSPAFallback(t *testing.T) {
	logger := discardLogger()
	service := generation.NewService(openai.NewClient(openai.Options{Logger: &logger}), &logger)
	app := handlers.NewApp(service, &logger)

	shell := fstest.MapFS{
		"index.html": {Data: []byte("<html>shell</html>")},
		"app.js":     {Data: []byte("console.log(1)")},
	}
	srv := httptest.NewServer(NewRouter(app, testConfig(), logger, shell))
	defer srv.Close()

	for _, path := range []string{"/", "/app.js", "/some/unknown/route"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s status %d", path, resp.StatusCode)
		}
		if path != "/app.js" && !strings.Contains(string(body), "shell") {
			t.Fatalf("GET %s should fall back to index.html, got %q", path, body)
		}
	}
}
