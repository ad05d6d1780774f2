package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultModel      = "gemini-2.5-flash"
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1beta"
)

var ErrEmptyResponse = errors.New("gemini returned no text")

type Options struct {
	APIKey     string
	Model      string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	genai  *genai.Client
	model  string
	logger *slog.Logger
}

func New(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL + "/",
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		genai:  client,
		model:  model,
		logger: logger,
	}, nil
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt is empty")
	}

	var config *genai.GenerateContentConfig
	if opts.Temperature > 0 {
		temperature := opts.Temperature
		config = &genai.GenerateContentConfig{Temperature: &temperature}
	}

	return c.generate(ctx, "text", genai.Text(prompt), config)
}

// DescribeImage sends one inline image followed by the instruction.
func (c *Client) DescribeImage(ctx context.Context, img ImageInput, instruction string) (string, error) {
	if len(img.Data) == 0 {
		return "", errors.New("image is empty")
	}
	mime := img.MimeType
	if mime == "" {
		mime = http.DetectContentType(img.Data)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, mime),
			genai.NewPartFromText(strings.TrimSpace(instruction)),
		}, genai.RoleUser),
	}

	return c.generate(ctx, "image", contents, nil)
}

// Validate spends one minimal request to prove the key works.
func (c *Client) Validate(ctx context.Context) error {
	_, err := c.generate(ctx, "validate", genai.Text("hi"), nil)
	if err != nil && !errors.Is(err, ErrEmptyResponse) {
		return ClassifyError(err)
	}
	return nil
}

func (c *Client) generate(ctx context.Context, op string, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("gemini request failed", "op", op, "model", c.model, "dur_ms", elapsed.Milliseconds(), "err", err)
		return "", fmt.Errorf("generate content: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Text())
	c.logger.Debug("gemini response", "op", op, "model", c.model, "dur_ms", elapsed.Milliseconds(), "chars", len(text))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
