package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"sedorist/internal/models"
)

// Extractor is the outbound AI boundary: it takes an image and returns the
// model's raw text answer.
type Extractor interface {
	AnalyzePriceTag(ctx context.Context, image []byte, mimeType string) (string, error)
}

// ScanResult is what the vision model read off a price tag.
type ScanResult struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// ScanService turns a price-tag photo into a prefilled item form.
type ScanService struct {
	ai Extractor
}

// NewScanService creates a new ScanService. ai may be nil when no API key
// is configured; every scan then reports the AI as unavailable.
func NewScanService(ai Extractor) *ScanService {
	return &ScanService{
		ai: ai,
	}
}

// ExtractItem sends the image to the model and parses the answer into a
// name and a price. Transport failures surface as models.ErrAIUnavailable,
// answers outside the expected JSON shape as models.ErrAIParse; the caller
// falls back to an empty form either way.
func (s *ScanService) ExtractItem(ctx context.Context, image []byte, mimeType string) (*ScanResult, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("%w: no API key configured", models.ErrAIUnavailable)
	}

	text, err := s.ai.AnalyzePriceTag(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAIUnavailable, err)
	}

	return parseScanResponse(text)
}

// parseScanResponse decodes the model's answer. The model is prompted to
// answer with bare JSON but frequently wraps it in ```json fences, and the
// price sometimes comes back as a string with currency noise.
func parseScanResponse(text string) (*ScanResult, error) {
	clean := strings.TrimSpace(text)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	var raw struct {
		Name  string          `json:"name"`
		Price json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAIParse, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: missing name field", models.ErrAIParse)
	}

	price, err := parsePrice(raw.Price)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrAIParse, err)
	}

	return &ScanResult{Name: raw.Name, Price: price}, nil
}

// parsePrice accepts the price as a JSON number or as a string, stripping
// yen signs, commas and whitespace from the latter.
func parsePrice(raw json.RawMessage) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing price field")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("price is neither number nor string")
	}
	for _, junk := range []string{"¥", "円", ",", " "} {
		s = strings.ReplaceAll(s, junk, "")
	}
	price, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("price %q not convertible to integer", s)
	}
	return price, nil
}
