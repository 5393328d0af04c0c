package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
)

var _ output.Provider = (*Google)(nil)

const googleURL = "https://translate.googleapis.com/translate_a/single"

// Google calls the public, key-less translate endpoint.
type Google struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

func NewGoogle(opts Options) *Google {
	return &Google{
		endpoint: opts.endpoint(googleURL),
		client:   opts.httpClient(),
		log:      opts.logger(),
	}
}

func (g *Google) Name() string    { return string(entities.EngineGoogle) }
func (g *Google) Available() bool { return true }

func (g *Google) Translate(ctx context.Context, text, source, target string) string {
	out, err := g.translate(ctx, text, source, target)
	if err != nil {
		g.log.Error("google: translate failed", "error", err)
		return text
	}
	return out
}

func (g *Google) translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	body, err := do(g.client, req)
	if err != nil {
		return "", err
	}
	return parseGoogle(body)
}

// parseGoogle concatenates the first element of every segment in the first
// array of the response: [[["seg1","src1",...],["seg2","src2",...]],...].
func parseGoogle(body []byte) (string, error) {
	var root []json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(root) == 0 {
		return "", fmt.Errorf("decode response: empty array")
	}
	var segments []json.RawMessage
	if err := json.Unmarshal(root[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}

	var b strings.Builder
	for _, raw := range segments {
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(pair[0], &s); err != nil {
			continue
		}
		b.WriteString(s)
	}
	return b.String(), nil
}
