package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"screenkeep/internal/catalog"
)

// defaultTimeout bounds a classification round-trip when the config does not
// set one. Classification is expected to take hundreds of milliseconds.
const defaultTimeout = 10 * time.Second

// HTTPClassifier sends image bytes to a model server and decodes the ranked
// label list from its JSON response:
//
//	{"labels": [{"name": "receipt", "confidence": 0.93}, ...]}
//
// Any transport or decode failure is returned as an error; the pipeline
// treats that as "no result".
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

// NewHTTPClassifier creates a classifier talking to the given endpoint.
// timeout <= 0 uses the default.
func NewHTTPClassifier(endpoint string, timeout time.Duration) *HTTPClassifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type classifyResponse struct {
	Labels []struct {
		Name       string  `json:"name"`
		Confidence float64 `json:"confidence"`
	} `json:"labels"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) ([]catalog.Label, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, body)
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	labels := make([]catalog.Label, 0, len(decoded.Labels))
	for _, l := range decoded.Labels {
		labels = append(labels, catalog.Label{Name: l.Name, Confidence: l.Confidence})
	}
	return labels, nil
}

// Compile-time check that HTTPClassifier implements the catalog.Classifier interface
var _ catalog.Classifier = (*HTTPClassifier)(nil)
