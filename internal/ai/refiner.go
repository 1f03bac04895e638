package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/tweets"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

// GeminiRefiner rewrites generated text through the Gemini REST API
type GeminiRefiner struct {
	apiKey      string
	baseURL     string
	model       string
	httpClient  *http.Client
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewGeminiRefiner creates a refinement client
func NewGeminiRefiner(cfg config.RefinementConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *GeminiRefiner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	return &GeminiRefiner{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: limiter,
		log:         log.WithComponent("refiner"),
	}
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Refine sends the text through the rewrite prompt and returns the rewritten
// version. A response without candidates falls back to the input unchanged.
func (r *GeminiRefiner) Refine(ctx context.Context, text string) (string, error) {
	if err := r.rateLimiter.Wait(ctx, ratelimit.LimiterRefinement); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: tweets.BuildRefinementPrompt(text)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", r.baseURL, r.model, r.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	r.log.Debug().Str("model", r.model).Msg("Refining generated text")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("refine: %w", ErrTimeout)
		}
		return "", fmt.Errorf("refinement request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("refinement API error (status %d): %s", resp.StatusCode, string(raw))
	}

	var parsed generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode refinement response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		r.log.Warn().Msg("Refinement returned no candidates, keeping original text")
		return text, nil
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// Ensure GeminiRefiner implements Refiner
var _ Refiner = (*GeminiRefiner)(nil)
