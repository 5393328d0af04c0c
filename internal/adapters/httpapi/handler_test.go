package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"textoverlay/internal/domain"
	"textoverlay/internal/domain/entities"
)

type fakeSession struct {
	mu        sync.Mutex
	auto      bool
	cycleErr  error
	reloadErr error
	flushed   int
	flushErr  error
	cache     map[string]string
	texts     []entities.NodeText
}

func (f *fakeSession) RunCycle(ctx context.Context) (entities.CycleSummary, error) {
	if f.cycleErr != nil {
		return entities.CycleSummary{Dropped: errors.Is(f.cycleErr, domain.ErrCycleInProgress)}, f.cycleErr
	}
	return entities.CycleSummary{ID: "c1", Translated: 2}, nil
}

func (f *fakeSession) ReloadCache(ctx context.Context) (int, error) {
	return len(f.cache), f.reloadErr
}

func (f *fakeSession) FlushCache(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed++
	return f.flushErr
}

func (f *fakeSession) Lookup(text string) (string, bool) {
	v, ok := f.cache[text]
	return v, ok
}

func (f *fakeSession) TranslateText(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", domain.ErrEmptyText
	}
	return "번역:" + text, nil
}

func (f *fakeSession) DumpTexts(ctx context.Context) ([]entities.NodeText, error) {
	return f.texts, nil
}

func (f *fakeSession) AutoTranslate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auto
}

func (f *fakeSession) SetAutoTranslate(on bool) {
	f.mu.Lock()
	f.auto = on
	f.mu.Unlock()
}

func (f *fakeSession) Status() entities.Status {
	return entities.Status{AutoTranslate: f.AutoTranslate(), Engine: entities.EngineGoogle, CacheSize: len(f.cache)}
}

func newServer(f *fakeSession) *httptest.Server {
	return httptest.NewServer(NewRouter(NewHandler(f, nil)))
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCycle(t *testing.T) {
	f := &fakeSession{}
	srv := newServer(f)
	defer srv.Close()

	resp := do(t, http.MethodPost, srv.URL+"/cycle", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var sum entities.CycleSummary
	json.NewDecoder(resp.Body).Decode(&sum)
	if sum.ID != "c1" || sum.Translated != 2 {
		t.Errorf("summary = %+v", sum)
	}

	f.cycleErr = domain.ErrCycleInProgress
	if resp := do(t, http.MethodPost, srv.URL+"/cycle", ""); resp.StatusCode != http.StatusConflict {
		t.Errorf("busy status = %d, want 409", resp.StatusCode)
	}

	f.cycleErr = errors.New("page gone")
	if resp := do(t, http.MethodPost, srv.URL+"/cycle", ""); resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("error status = %d, want 500", resp.StatusCode)
	}
}

func TestAuto(t *testing.T) {
	f := &fakeSession{}
	srv := newServer(f)
	defer srv.Close()

	do(t, http.MethodPost, srv.URL+"/auto", "")
	if !f.AutoTranslate() {
		t.Error("toggle did not enable auto")
	}
	do(t, http.MethodPost, srv.URL+"/auto?enabled=false", "")
	if f.AutoTranslate() {
		t.Error("enabled=false did not disable auto")
	}
	if resp := do(t, http.MethodPost, srv.URL+"/auto?enabled=maybe", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCacheRoutes(t *testing.T) {
	f := &fakeSession{cache: map[string]string{"猫": "고양이"}}
	srv := newServer(f)
	defer srv.Close()

	resp := do(t, http.MethodGet, srv.URL+"/cache/lookup?q="+url.QueryEscape("猫"), "")
	var tr translation
	json.NewDecoder(resp.Body).Decode(&tr)
	if resp.StatusCode != http.StatusOK || tr.Translated != "고양이" {
		t.Errorf("lookup = %d %+v", resp.StatusCode, tr)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/cache/lookup?q="+url.QueryEscape("犬"), ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("miss status = %d, want 404", resp.StatusCode)
	}
	if resp := do(t, http.MethodGet, srv.URL+"/cache/lookup", ""); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no q status = %d, want 400", resp.StatusCode)
	}

	if resp := do(t, http.MethodPost, srv.URL+"/cache/flush", ""); resp.StatusCode != http.StatusNoContent || f.flushed != 1 {
		t.Errorf("flush = %d, flushed %d", resp.StatusCode, f.flushed)
	}
	f.mu.Lock()
	f.flushErr = domain.ErrCacheUnread
	f.mu.Unlock()
	if resp := do(t, http.MethodPost, srv.URL+"/cache/flush", ""); resp.StatusCode != http.StatusConflict {
		t.Errorf("unread flush status = %d, want 409", resp.StatusCode)
	}

	resp = do(t, http.MethodPost, srv.URL+"/cache/reload", "")
	var body map[string]int
	json.NewDecoder(resp.Body).Decode(&body)
	if body["entries"] != 1 {
		t.Errorf("reload body = %v", body)
	}
	f.reloadErr = errors.New("disk")
	if resp := do(t, http.MethodPost, srv.URL+"/cache/reload", ""); resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("reload error status = %d", resp.StatusCode)
	}
}

func TestTranslate(t *testing.T) {
	srv := newServer(&fakeSession{})
	defer srv.Close()

	resp := do(t, http.MethodPost, srv.URL+"/translate", `{"text":"猫"}`)
	var tr translation
	json.NewDecoder(resp.Body).Decode(&tr)
	if tr.Translated != "번역:猫" {
		t.Errorf("got %+v", tr)
	}
	if resp := do(t, http.MethodPost, srv.URL+"/translate", `{"text":""}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty status = %d, want 400", resp.StatusCode)
	}
	if resp := do(t, http.MethodPost, srv.URL+"/translate", `{`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad json status = %d, want 400", resp.StatusCode)
	}
}

func TestStatusAndTexts(t *testing.T) {
	f := &fakeSession{auto: true, texts: []entities.NodeText{{ID: "1", Kind: entities.KindSimple, Text: "猫"}}}
	srv := newServer(f)
	defer srv.Close()

	var st entities.Status
	json.NewDecoder(do(t, http.MethodGet, srv.URL+"/status", "").Body).Decode(&st)
	if !st.AutoTranslate || st.Engine != entities.EngineGoogle {
		t.Errorf("status = %+v", st)
	}

	var texts []entities.NodeText
	json.NewDecoder(do(t, http.MethodGet, srv.URL+"/texts", "").Body).Decode(&texts)
	if len(texts) != 1 || texts[0].Text != "猫" {
		t.Errorf("texts = %+v", texts)
	}
}
