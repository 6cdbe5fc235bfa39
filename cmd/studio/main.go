package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/client"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/imaging"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", "http://localhost:3000", "listing server base URL")
	gender := flag.String("gender", "femme", "mannequin gender (femme, homme, neutral)")
	extra := flag.String("extra", "", "seller notes passed to the listing stage")
	noAI := flag.Bool("no-ai", false, "run the listing stage in demo mode")
	noMannequin := flag.Bool("no-mannequin", false, "skip the mannequin stage")
	out := flag.String("out", "mannequin.png", "output path for the mannequin image")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: studio [flags] photo.jpg [photo2.jpg ...]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := infra.NewLogger(os.Getenv("APP_ENV"))

	paths := flag.Args()
	if len(paths) == 0 && !*noAI {
		flag.Usage()
		os.Exit(2)
	}

	raws := make([]imaging.RawImage, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("cannot read photo")
		}
		raws = append(raws, imaging.RawImage{
			Data:     data,
			MIME:     mimeFor(path),
			Filename: filepath.Base(path),
		})
	}
	images := imaging.NormalizeAll(raws, imaging.Options{})

	api := client.New(*server, &http.Client{Timeout: 5 * time.Minute})

	health, err := api.Health(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Str("server", *server).Msg("server unreachable")
	}
	if !health.HasKey && !*noAI {
		logger.Warn().Msg("server has no provider key configured; expect generation to fail (use -no-ai for demo mode)")
	}

	orch := pipeline.New(api, &logger)
	res, err := orch.Execute(context.Background(), images, pipeline.Options{
		UseAI:        !*noAI,
		UseMannequin: !*noMannequin,
		Gender:       *gender,
		Extra:        *extra,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("pipeline run failed")
	}

	fmt.Printf("Title:       %s\n", res.Listing.Title)
	fmt.Printf("Price:       %s\n", res.Listing.Price)
	fmt.Printf("Description:\n%s\n", res.Listing.Description)

	switch res.MannequinOutcome {
	case pipeline.MannequinGenerated:
		mimeType, data, err := imaging.ParseDataURL(res.Mannequin.ImageDataURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("malformed mannequin image")
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Fatal().Err(err).Str("path", *out).Msg("cannot write mannequin image")
		}
		fmt.Printf("Mannequin:   %s (%s, %d bytes)\n", *out, mimeType, len(data))
	case pipeline.MannequinFailed:
		fmt.Printf("Mannequin:   %s\n", res.MannequinNote)
	}
}

// mimeFor guesses the upload type from the extension; the server re-validates
// against decoded bytes anyway.
func mimeFor(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return imaging.MIMEJPEG
}
