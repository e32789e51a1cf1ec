package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// HTTPClient posts requests as JSON to the prediction service.
type HTTPClient struct {
	url    string
	client *http.Client
}

// NewHTTPClient returns a client for url. A nil client uses one without a
// timeout: a hung request leaves the previous suggestions in place.
func NewHTTPClient(url string, client *http.Client) *HTTPClient {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPClient{url: url, client: client}
}

// Predict sends req and returns the ranked candidates.
func (c *HTTPClient) Predict(ctx context.Context, req Request) ([]string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := gjson.GetBytes(data, "detail").String()
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		log.Debugf("predictor answered %d: %s", resp.StatusCode, detail)
		return nil, fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, detail)
	}

	return ParseResponse(data)
}

// ParseResponse extracts the candidate list from a response body.
// The list is read from "suggestions", falling back to "merged".
func ParseResponse(data []byte) ([]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	list := gjson.GetBytes(data, "suggestions")
	if !list.Exists() {
		list = gjson.GetBytes(data, "merged")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: no suggestion list", ErrMalformed)
	}

	items := list.Array()
	words := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("%w: suggestion %d is %s, not a string", ErrMalformed, i, item.Type)
		}
		words = append(words, item.Str)
	}
	return words, nil
}
