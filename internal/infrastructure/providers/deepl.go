package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
	"textoverlay/internal/ports/output"
	"textoverlay/pkg/langcode"
)

var _ output.Provider = (*DeepL)(nil)

const deeplURL = "https://api-free.deepl.com/v2/translate"

// DeepL calls the DeepL v2 API. Language codes are sent upper-cased.
type DeepL struct {
	apiKey   string
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

func NewDeepL(apiKey string, opts Options) *DeepL {
	return &DeepL{
		apiKey:   apiKey,
		endpoint: opts.endpoint(deeplURL),
		client:   opts.httpClient(),
		log:      opts.logger(),
	}
}

func (d *DeepL) Name() string    { return string(entities.EngineDeepL) }
func (d *DeepL) Available() bool { return d.apiKey != "" }

func (d *DeepL) Translate(ctx context.Context, text, source, target string) string {
	out, err := d.translate(ctx, text, source, target)
	if err != nil {
		d.log.Error("deepl: translate failed", "error", err)
		return text
	}
	return out
}

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

func (d *DeepL) translate(ctx context.Context, text, source, target string) (string, error) {
	if !d.Available() {
		return "", domain.ErrProviderUnavailable
	}
	form := url.Values{}
	form.Set("text", text)
	form.Set("source_lang", langcode.Upper(source))
	form.Set("target_lang", langcode.Upper(target))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)

	body, err := do(d.client, req)
	if err != nil {
		return "", err
	}
	var resp deeplResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("decode response: no translations")
	}
	return resp.Translations[0].Text, nil
}
