package pdf

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Service converts rendered form pages into PDF documents through an
// external conversion API and returns the URL of the produced file.
type Service interface {
	ConvertFromURL(ctx context.Context, sourceURL, name string) (string, error)
}

type convertRequest struct {
	URL       string `json:"url"`
	Name      string `json:"name"`
	PaperSize string `json:"paperSize"`
	Async     bool   `json:"async"`
}

type convertResponse struct {
	URL     string `json:"url"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type apiService struct {
	client *resty.Client
}

func NewService(apiBase, apiKey string) Service {
	client := resty.New().
		SetBaseURL(apiBase).
		SetHeader("Accept", "application/json").
		SetHeader("x-api-key", apiKey)
	return &apiService{client: client}
}

func (s *apiService) ConvertFromURL(ctx context.Context, sourceURL, name string) (string, error) {
	var result convertResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(convertRequest{URL: sourceURL, Name: name, PaperSize: "A4", Async: false}).
		SetResult(&result).
		Post("/pdf/convert/from/url")
	if err != nil {
		return "", err
	}
	if resp.IsError() || result.Error {
		return "", fmt.Errorf("pdf conversion failed: %s", result.Message)
	}
	return result.URL, nil
}
