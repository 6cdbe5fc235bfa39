package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/infra"
)

// Options controls how the provider client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	TextModel  string
	ImageModel string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client performs HTTP calls against the two provider operations the pipeline
// needs: a multimodal completion (Responses API) and an image edit. It stays
// a thin wire-level facade; prompt construction and response interpretation
// live one layer up in the generation package.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	httpClient *http.Client
	logger     *infra.Logger
}

// File is a named, explicitly typed binary attachment for the image-edit call.
type File struct {
	Name string
	MIME string
	Data []byte
}

// CompletionRequest asks the text+vision operation for a single JSON answer.
type CompletionRequest struct {
	Instruction string
	// Images are data URLs passed inline; the Responses API accepts them
	// by reference without re-encoding.
	Images []string
}

// ImageEditRequest asks the image-edit operation for one edited frame.
type ImageEditRequest struct {
	Prompt string
	Size   string
	Files  []File
}

type responsesRequest struct {
	Model string          `json:"model"`
	Input []responseInput `json:"input"`
	Text  *textOptions    `json:"text,omitempty"`
}

type responseInput struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type textOptions struct {
	Format formatOptions `json:"format"`
}

type formatOptions struct {
	Type string `json:"type"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

type imageEditResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewClient constructs a provider client with sane defaults. Callers may
// provide a nil HTTP client; a reusable one with a generation-friendly
// timeout will be created.
func NewClient(opts Options) *Client {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 180 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = "gpt-5"
	}
	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = "gpt-image-1"
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		textModel:  textModel,
		imageModel: imageModel,
		httpClient: client,
		logger:     logger,
	}
}

// HasKey reports whether the client was configured with a credential.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

// Complete invokes the multimodal completion operation and returns the raw
// text of the first output message. The caller is responsible for parsing.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	content := make([]contentBlock, 0, len(req.Images)+1)
	content = append(content, contentBlock{Type: "input_text", Text: req.Instruction})
	for _, img := range req.Images {
		content = append(content, contentBlock{Type: "input_image", ImageURL: img})
	}

	payload := responsesRequest{
		Model: c.textModel,
		Input: []responseInput{{Role: "user", Content: content}},
		Text:  &textOptions{Format: formatOptions{Type: "json_object"}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var decoded responsesResponse
	if err := c.do(httpReq, &decoded); err != nil {
		return "", err
	}

	c.logger.Debug().
		Str("model", c.textModel).
		Int("images", len(req.Images)).
		Msg("openai: completion returned")

	return extractOutputText(decoded), nil
}

// EditImage invokes the image-edit operation with the reference files and
// returns the decoded bytes of the first generated image. Every file part
// carries its own Content-Type; the provider rejects untyped attachments.
func (c *Client) EditImage(ctx context.Context, req ImageEditRequest) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("model", c.imageModel); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	if err := form.WriteField("prompt", req.Prompt); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	size := req.Size
	if size == "" {
		size = "1024x1024"
	}
	if err := form.WriteField("size", size); err != nil {
		return nil, fmt.Errorf("write form: %w", err)
	}
	for _, f := range req.Files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image[]"; filename=%q`, f.Name))
		header.Set("Content-Type", f.MIME)
		part, err := form.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write part: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/edits", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	var decoded imageEditResponse
	if err := c.do(httpReq, &decoded); err != nil {
		return nil, err
	}

	if len(decoded.Data) == 0 || decoded.Data[0].B64JSON == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(decoded.Data[0].B64JSON)
	if err != nil {
		return nil, &domain.ProviderError{Message: "image payload is not valid base64"}
	}

	c.logger.Debug().
		Str("model", c.imageModel).
		Int("references", len(req.Files)).
		Int("bytes", len(raw)).
		Msg("openai: image edit returned")

	return raw, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr apiErrorResponse
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return &domain.ProviderError{Status: resp.StatusCode, Message: apiErr.Error.Message}
		}
		return &domain.ProviderError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.ProviderError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func extractOutputText(resp responsesResponse) string {
	for _, item := range resp.Output {
		if item.Type != "" && item.Type != "message" {
			continue
		}
		for _, block := range item.Content {
			if block.Type == "output_text" && strings.TrimSpace(block.Text) != "" {
				return block.Text
			}
		}
	}
	return ""
}
