package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"sedorist/internal/models"
	"sedorist/internal/services"
)

// fakeExtractor returns a canned model answer (or error) for every image.
type fakeExtractor struct {
	response string
	err      error
}

func (f *fakeExtractor) AnalyzePriceTag(_ context.Context, _ []byte, _ string) (string, error) {
	return f.response, f.err
}

func TestScanService_ExtractItem(t *testing.T) {
	image := []byte("not really a jpeg")

	tests := []struct {
		name     string
		response string
		want     services.ScanResult
	}{
		{
			name:     "bare JSON",
			response: `{"name":"Widget","price":500}`,
			want:     services.ScanResult{Name: "Widget", Price: 500},
		},
		{
			name: "fenced JSON",
			response: "```json\n" + `{
    "name": "Retro Game Console",
    "price": 2200
}` + "\n```",
			want: services.ScanResult{Name: "Retro Game Console", Price: 2200},
		},
		{
			name:     "price as string with currency noise",
			response: `{"name":"Figure","price":"¥1,280"}`,
			want:     services.ScanResult{Name: "Figure", Price: 1280},
		},
		{
			name:     "price as float",
			response: `{"name":"Widget","price":500.0}`,
			want:     services.ScanResult{Name: "Widget", Price: 500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := services.NewScanService(&fakeExtractor{response: tt.response})
			got, err := svc.ExtractItem(context.Background(), image, "image/jpeg")
			assert.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestScanService_ExtractItem_ParseFailures(t *testing.T) {
	image := []byte("img")

	responses := []string{
		"I could not read the price tag, sorry!",
		`{"price":500}`,
		`{"name":"","price":500}`,
		`{"name":"Widget","price":"about five hundred"}`,
		`{"name":"Widget"}`,
	}
	for _, response := range responses {
		svc := services.NewScanService(&fakeExtractor{response: response})
		_, err := svc.ExtractItem(context.Background(), image, "image/jpeg")
		assert.ErrorIs(t, err, models.ErrAIParse, "response: %s", response)
	}
}

func TestScanService_ExtractItem_Unavailable(t *testing.T) {
	image := []byte("img")

	svc := services.NewScanService(&fakeExtractor{err: errors.New("connection refused")})
	_, err := svc.ExtractItem(context.Background(), image, "image/jpeg")
	assert.ErrorIs(t, err, models.ErrAIUnavailable)

	// No extractor configured at all (missing API key).
	svc = services.NewScanService(nil)
	_, err = svc.ExtractItem(context.Background(), image, "image/jpeg")
	assert.ErrorIs(t, err, models.ErrAIUnavailable)
}
