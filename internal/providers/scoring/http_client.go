package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/campusplace/backend/internal/utils"
	"github.com/sirupsen/logrus"
)

// HTTPClient talks to the placement scoring service over its REST API.
type HTTPClient struct {
	baseURL string
	httpc   *http.Client
	log     *logrus.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, log *logrus.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *HTTPClient) Score(ctx context.Context, req Request) (*Result, error) {
	const op = "ScoringClient.Score"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode scoring request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to build scoring request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "scoring service unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, utils.E(utils.CodeUnavailable, op,
			fmt.Sprintf("scoring service returned status %d", resp.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(detail))))
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "scoring service returned an unreadable response", err)
	}

	if c.log != nil {
		c.log.WithFields(logrus.Fields{
			"latency_ms":  time.Since(started).Milliseconds(),
			"placed":      result.Placement.Placed,
			"probability": result.Placement.Probability,
		}).Debug("scoring call completed")
	}
	return &result, nil
}
