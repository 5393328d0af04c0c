// Package httpapi is the local control API of a translation session: manual
// trigger, auto toggle, cache reload and flush, text dump.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"textoverlay/internal/domain"
	"textoverlay/internal/ports/input"
)

// Handler serves the control routes.
type Handler struct {
	uc     input.TranslationUseCase
	logger *slog.Logger
}

func NewHandler(uc input.TranslationUseCase, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{uc: uc, logger: logger}
}

// RegisterHTTP registers the control endpoints on r.
func (h *Handler) RegisterHTTP(r chi.Router) {
	r.Get("/status", h.handleStatus)
	r.Post("/cycle", h.handleCycle)
	r.Post("/auto", h.handleAuto)
	r.Get("/texts", h.handleTexts)
	r.Post("/translate", h.handleTranslate)

	r.Route("/cache", func(r chi.Router) {
		r.Post("/reload", h.handleReload)
		r.Post("/flush", h.handleFlush)
		r.Get("/lookup", h.handleLookup)
	})
}

// NewRouter returns a chi router with the standard middleware and the
// control endpoints.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.RegisterHTTP(r)
	return r
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.uc.Status())
}

// handleCycle runs one cycle synchronously.
// POST /cycle
func (h *Handler) handleCycle(w http.ResponseWriter, r *http.Request) {
	summary, err := h.uc.RunCycle(r.Context())
	switch {
	case errors.Is(err, domain.ErrCycleInProgress):
		writeJSON(w, http.StatusConflict, summary)
	case err != nil:
		h.logger.Error("httpapi: cycle failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, summary)
	default:
		writeJSON(w, http.StatusOK, summary)
	}
}

// handleAuto toggles automatic translation, or sets it with ?enabled=.
// POST /auto
func (h *Handler) handleAuto(w http.ResponseWriter, r *http.Request) {
	enabled := !h.uc.AutoTranslate()
	if v := r.URL.Query().Get("enabled"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "enabled must be true or false", http.StatusBadRequest)
			return
		}
		enabled = b
	}
	h.uc.SetAutoTranslate(enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"auto_translate": enabled})
}

func (h *Handler) handleReload(w http.ResponseWriter, r *http.Request) {
	n, err := h.uc.ReloadCache(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("reload failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"entries": n})
}

func (h *Handler) handleFlush(w http.ResponseWriter, r *http.Request) {
	err := h.uc.FlushCache(r.Context())
	if errors.Is(err, domain.ErrCacheUnread) {
		http.Error(w, "cache store unreadable, reload it first", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("flush failed: %v", err), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleLookup answers from the cache only.
// GET /cache/lookup?q=
func (h *Handler) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "q required", http.StatusBadRequest)
		return
	}
	v, ok := h.uc.Lookup(q)
	if !ok {
		http.Error(w, "not cached", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, translation{Text: q, Translated: v})
}

func (h *Handler) handleTexts(w http.ResponseWriter, r *http.Request) {
	texts, err := h.uc.DumpTexts(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("dump failed: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, texts)
}

type translation struct {
	Text       string `json:"text"`
	Translated string `json:"translated,omitempty"`
}

// handleTranslate translates one string through cache and provider.
// POST /translate {"text": "..."}
func (h *Handler) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req translation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	out, err := h.uc.TranslateText(r.Context(), req.Text)
	if errors.Is(err, domain.ErrEmptyText) {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, translation{Text: req.Text, Translated: out})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Serve runs the control API on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("httpapi: listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("httpapi: serve: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	return nil
}
