package generation

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/payload"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/providers/openai"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/transport"
)

// FallbackGarment is the last-resort mannequin description when the model
// returned neither a prompt nor a title.
const FallbackGarment = "a garment"

// Provider is the slice of the provider client the facade needs. Tests swap
// in a recording stub.
type Provider interface {
	HasKey() bool
	Complete(ctx context.Context, req openai.CompletionRequest) (string, error)
	EditImage(ctx context.Context, req openai.ImageEditRequest) ([]byte, error)
}

// ListingRequest is the facade-level input for Stage 1.
type ListingRequest struct {
	Images []string
	Extra  string
	UseAI  bool
}

// MannequinRequest is the facade-level input for Stage 2.
type MannequinRequest struct {
	Images      []string
	Description string
	Gender      string
}

// Service wraps the two provider operations behind the normalized
// request/response contract: prompt construction on the way in, strict-JSON
// parsing with safe defaults on the way out.
type Service struct {
	provider Provider
	logger   *infra.Logger
	lower    cases.Caser
}

func NewService(provider Provider, logger *infra.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
		lower:    cases.Lower(language.Und),
	}
}

// HasKey reports provider credential presence for the health probe.
func (s *Service) HasKey() bool {
	return s.provider.HasKey()
}

// GenerateListing runs Stage 1. Demo mode short-circuits before the
// credential check so the app stays usable without a key.
func (s *Service) GenerateListing(ctx context.Context, req ListingRequest) (*domain.ListingResult, error) {
	if !req.UseAI {
		return demoListing(), nil
	}
	if !s.provider.HasKey() {
		return nil, domain.ErrMissingAPIKey
	}

	images := payload.ImageList(req.Images).Cap(payload.ListingImageCap)
	text, err := s.provider.Complete(ctx, openai.CompletionRequest{
		Instruction: BuildListingInstruction(ListingPromptOptions{Extra: req.Extra}),
		Images:      images,
	})
	if err != nil {
		return nil, err
	}

	parsed := parseListingPayload(text)
	if parsed == (listingPayload{}) && strings.TrimSpace(text) != "" {
		s.logger.Warn().Msg("generation: listing answer was not valid JSON, returning defaults")
	}

	result := &domain.ListingResult{
		Title:       s.normalizeLower(parsed.Title),
		Description: parsed.Description,
		Price:       parsed.Price,
	}
	// Keep a usable Stage 2 prompt even when the model forgot the key.
	switch {
	case strings.TrimSpace(parsed.MannequinPrompt) != "":
		result.MannequinPrompt = strings.TrimSpace(parsed.MannequinPrompt)
	case result.Title != "":
		result.MannequinPrompt = result.Title
	default:
		result.MannequinPrompt = FallbackGarment
	}
	return result, nil
}

// GenerateMannequin runs Stage 2: admission control over the reference
// images, then the image-edit call.
func (s *Service) GenerateMannequin(ctx context.Context, req MannequinRequest) (*domain.MannequinResult, error) {
	if !s.provider.HasKey() {
		return nil, domain.ErrMissingAPIKey
	}

	attachments, err := transport.BuildAttachments(req.Images, s.logger)
	if err != nil {
		return nil, err
	}
	files := make([]openai.File, len(attachments))
	for i, att := range attachments {
		files[i] = openai.File{Name: att.Name, MIME: att.MIME, Data: att.Data}
	}

	raw, err := s.provider.EditImage(ctx, openai.ImageEditRequest{
		Prompt: BuildMannequinInstruction(MannequinPromptOptions{
			Description: req.Description,
			Gender:      req.Gender,
		}),
		Size:  "1024x1024",
		Files: files,
	})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &domain.ProviderError{Message: "no image returned by the provider"}
	}

	return &domain.MannequinResult{ImageDataURL: dataURLPNG(raw)}, nil
}

// normalizeLower enforces the lowercase-title site convention even when the
// model ignored the instruction.
func (s *Service) normalizeLower(v string) string {
	return s.lower.String(strings.TrimSpace(v))
}
