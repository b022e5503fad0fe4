// Package assist rephrases a free-text permission reason into a more formal
// tone through a generative-text API. Any failure falls back silently to the
// original text; letter generation never depends on this collaborator.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"izinkuy/utils"
)

// Style selects the rewriting tone.
type Style string

const (
	StyleFormal Style = "formal"
	StylePoetic Style = "poetic"
	StyleSimple Style = "simple"
)

// Rephraser is the text-transform capability. Implementations must return the
// raw text unchanged on any failure.
type Rephraser interface {
	Polish(ctx context.Context, rawReason, permissionType string, style Style) string
}

// Noop returns the input unchanged. Used when no API key is configured.
type Noop struct{}

func (Noop) Polish(_ context.Context, rawReason, _ string, _ Style) string { return rawReason }

// Client calls a hosted generative-text endpoint.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

// NewClient builds a client for the configured endpoint and model.
func NewClient(endpoint, apiKey, model string) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Polish asks the model to rewrite the reason. On any error the raw text is
// returned unchanged.
func (c *Client) Polish(ctx context.Context, rawReason, permissionType string, style Style) string {
	if style == "" {
		style = StyleFormal
	}

	prompt := fmt.Sprintf(
		"Tolong ubah alasan izin berikut ini menjadi bahasa Indonesia yang lebih %s, sopan, dan sesuai untuk konteks izin %q.\n\n"+
			"Alasan asli: %q\n\n"+
			"Hanya berikan hasil perubahannya saja tanpa tanda kutip atau teks pembuka/penutup tambahan. "+
			"Pastikan alasannya terdengar masuk akal dan respek.",
		style, permissionType, rawReason)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return rawReason
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return rawReason
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		utils.Log.Warn("Assistant request failed: %v", err)
		return rawReason
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		utils.Log.Warn("Assistant returned status %d", resp.StatusCode)
		return rawReason
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return rawReason
	}

	var parsed generateResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return rawReason
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return rawReason
	}

	polished := strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text)
	if polished == "" {
		return rawReason
	}
	return polished
}
