package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	lru "github.com/hashicorp/golang-lru"
	"github.com/khnpedu/tension-meeting/config"
	"github.com/khnpedu/tension-meeting/globals"
)

// FallbackText is returned whenever the advisory service is unavailable or
// fails. The failure is never surfaced to the caller.
const FallbackText = "AI 응답을 가져오는 데 실패했습니다. 다시 시도해주세요."

// Advisor is the one-shot generative-text capability.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// HTTPAdvisor calls a generative-text endpoint over plain HTTP.
type HTTPAdvisor struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func NewHTTPAdvisor(cfg config.AdviceConfig) *HTTPAdvisor {
	return &HTTPAdvisor{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.ApiKey,
		model:    cfg.Model,
		client:   http.DefaultClient,
	}
}

type adviseRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type adviseResponse struct {
	Text string `json:"text"`
}

func (a *HTTPAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(adviseRequest{Model: a.model, Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advice service returned status %d", resp.StatusCode)
	}
	out := adviseResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Text == "" {
		return "", fmt.Errorf("advice service returned empty text")
	}
	return out.Text, nil
}

// Service wraps an Advisor with an ARC cache and the fallback behavior: it
// never fails, any error degrades to FallbackText.
type Service struct {
	advisor Advisor
	cache   *lru.ARCCache
}

// NewService builds the advice service. advisor may be nil (no endpoint
// configured), in which case every request answers with the fallback text.
func NewService(advisor Advisor, cacheSize int) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.NewARC(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{advisor: advisor, cache: cache}, nil
}

func (s *Service) Advise(ctx context.Context, prompt string) string {
	if s.advisor == nil {
		return FallbackText
	}
	if cached, ok := s.cache.Get(prompt); ok {
		return cached.(string)
	}
	text, err := s.advisor.Advise(ctx, prompt)
	if err != nil {
		globals.AppLogger.Warn("advice request failed, using fallback text", "error", err)
		return FallbackText
	}
	s.cache.Add(prompt, text)
	return text
}
