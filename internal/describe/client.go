// Package describe asks a Gemini generateContent endpoint for product copy.
package describe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/meneric/pkg/logging"
)

const (
	FallbackEmpty = "Description could not be generated at this time."
	FallbackError = "Error generating AI description."
)

type Generator interface {
	Generate(ctx context.Context, productName, category string) string
}

type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func Prompt(productName, category string) string {
	return fmt.Sprintf("Generate a catchy, high-converting e-commerce product description for a %s in the %s category. Keep it under 100 words and highlight benefits.", productName, category)
}

// Generate never fails: errors and empty answers turn into fixed fallback text.
func (c *Client) Generate(ctx context.Context, productName, category string) string {
	l := logging.FromContext(ctx).With("svc", "describe.generate")

	text, err := c.generate(ctx, Prompt(productName, category))
	if err != nil {
		l.Warn("describe_error", "reason", "generateContent failed", "error", err)
		return FallbackError
	}
	if strings.TrimSpace(text) == "" {
		l.Warn("describe_empty", "reason", "model returned no text")
		return FallbackEmpty
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("api key is not configured")
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generateContent failed with status: %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return sb.String(), nil
}
