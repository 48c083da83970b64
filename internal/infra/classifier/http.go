// Package classifier calls a remote zero-shot classification service to
// label slide content, with an offline keyword heuristic as fallback.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/amgadabdelhafez/knowledge-builder/internal/analysis"
)

// CandidateLabels are the content types the zero-shot model chooses from.
var CandidateLabels = []string{
	"code_snippet",
	"network_diagram",
	"system_architecture",
	"data_flow",
	"algorithm_explanation",
	"api_documentation",
	"database_schema",
	"infrastructure_diagram",
	"security_architecture",
	"deployment_diagram",
}

const maxRetryElapsed = 30 * time.Second

// Client implements port.ContentClassifier over an HTTP zero-shot
// endpoint. An empty base URL disables the remote call entirely and every
// classification goes through the keyword heuristic.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type classifyRequest struct {
	Text            string   `json:"text"`
	CandidateLabels []string `json:"candidate_labels"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify labels the text. Remote failures after retries degrade to the
// keyword heuristic rather than failing the slide.
func (c *Client) Classify(ctx context.Context, text string) (string, float64, error) {
	if c.baseURL == "" {
		label, confidence := analysis.ClassifyDomain(text)
		return label, confidence, nil
	}

	var resp classifyResponse
	operation := func() error {
		return c.classifyOnce(ctx, text, &resp)
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(
		backoff.WithMaxElapsedTime(maxRetryElapsed),
	), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		c.logger.Warn("remote classifier unavailable, using keyword heuristic", zap.Error(err))
		label, confidence := analysis.ClassifyDomain(text)
		return label, confidence, nil
	}

	if len(resp.Labels) == 0 || len(resp.Scores) == 0 {
		label, confidence := analysis.ClassifyDomain(text)
		return label, confidence, nil
	}
	return resp.Labels[0], resp.Scores[0], nil
}

func (c *Client) classifyOnce(ctx context.Context, text string, out *classifyResponse) error {
	body, err := json.Marshal(classifyRequest{Text: text, CandidateLabels: CandidateLabels})
	if err != nil {
		return backoff.Permanent(fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("classifier returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return backoff.Permanent(fmt.Errorf("classifier returned %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
