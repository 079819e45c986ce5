// Package conversion wraps the external TAC->IWXXM conversion engine behind a
// small HTTP client. The engine itself (decoder, encoder, schema handling) is
// an external collaborator; this package only moves text across the wire.
package conversion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Converter turns a single METAR/SPECI TAC message into an IWXXM XML document.
type Converter interface {
	Convert(ctx context.Context, tac string) (string, error)
}

type convertRequest struct {
	TAC string `json:"tac"`
}

type convertResponse struct {
	XML    string `json:"xml"`
	Detail string `json:"detail,omitempty"`
}

// HTTPConverter forwards conversion requests to the engine's /convert
// endpoint.
type HTTPConverter struct {
	baseURL string
	client  *http.Client
}

func NewHTTPConverter(baseURL string) *HTTPConverter {
	return &HTTPConverter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPConverter) Convert(ctx context.Context, tac string) (string, error) {
	body, err := json.Marshal(convertRequest{TAC: tac})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/convert", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("converter unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", err
	}

	var out convertResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("invalid converter response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Detail != "" {
			return "", fmt.Errorf("conversion failed: %s", out.Detail)
		}
		return "", fmt.Errorf("conversion failed: status %d", resp.StatusCode)
	}
	if out.XML == "" {
		return "", fmt.Errorf("conversion failed: empty document")
	}
	return out.XML, nil
}
