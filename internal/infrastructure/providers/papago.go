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
)

var _ output.Provider = (*Papago)(nil)

const papagoURL = "https://naveropenapi.apigw.ntruss.com/nmt/v1/translation"

// Papago calls the Naver Cloud machine translation API. It needs both a
// client id and a client secret.
type Papago struct {
	clientID     string
	clientSecret string
	endpoint     string
	client       *http.Client
	log          *slog.Logger
}

func NewPapago(clientID, clientSecret string, opts Options) *Papago {
	return &Papago{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     opts.endpoint(papagoURL),
		client:       opts.httpClient(),
		log:          opts.logger(),
	}
}

func (p *Papago) Name() string { return string(entities.EnginePapago) }

func (p *Papago) Available() bool {
	return p.clientID != "" && p.clientSecret != ""
}

func (p *Papago) Translate(ctx context.Context, text, source, target string) string {
	out, err := p.translate(ctx, text, source, target)
	if err != nil {
		p.log.Error("papago: translate failed", "error", err)
		return text
	}
	return out
}

type papagoResponse struct {
	Message struct {
		Result struct {
			TranslatedText *string `json:"translatedText"`
		} `json:"result"`
	} `json:"message"`
}

func (p *Papago) translate(ctx context.Context, text, source, target string) (string, error) {
	if !p.Available() {
		return "", domain.ErrProviderUnavailable
	}
	form := url.Values{}
	form.Set("source", source)
	form.Set("target", target)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", p.clientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", p.clientSecret)

	body, err := do(p.client, req)
	if err != nil {
		return "", err
	}
	var resp papagoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if resp.Message.Result.TranslatedText == nil {
		return "", fmt.Errorf("decode response: no translatedText")
	}
	return *resp.Message.Result.TranslatedText, nil
}
