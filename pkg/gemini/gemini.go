package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client wraps the Gemini API for price-tag analysis. It sends one image
// plus an extraction prompt and returns the model's raw text answer.
type Client struct {
	gen   *genai.Client
	model string
}

// Config holds Gemini API details.
type Config struct {
	APIKey string
	// Model is the generative model name, e.g. "gemini-flash-latest".
	Model string
}

// The model is told to answer with bare JSON only; it still wraps the
// answer in ```json fences often enough that callers must strip them.
const priceTagPrompt = `Analyze this photo of a product and its price tag and extract:

1. name: the exact product name readable from the package or price tag
2. price: the price printed on the tag, digits only, no currency symbol or thousands separators

Answer with ONLY the following JSON, no extra prose:
{
    "name": "product name",
    "price": 1000
}`

// NewClient creates a Gemini client authenticated with an API key.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	gen, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{gen: gen, model: cfg.Model}, nil
}

// AnalyzePriceTag sends the image to the model and returns the concatenated
// text of the first candidate. One retry on a failed call; the Gemini
// free-tier endpoint drops requests often enough to make that worthwhile.
func (c *Client) AnalyzePriceTag(ctx context.Context, image []byte, mimeType string) (string, error) {
	model := c.gen.GenerativeModel(c.model)
	parts := []genai.Part{
		genai.Text(priceTagPrompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		resp, err = model.GenerateContent(ctx, parts...)
	}
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.gen.Close()
}
