package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/joestump/animeshelf/internal/api"
	"github.com/joestump/animeshelf/internal/app"
	"github.com/joestump/animeshelf/internal/catalog"
	"github.com/joestump/animeshelf/internal/config"
	"github.com/joestump/animeshelf/internal/kv"
	"github.com/joestump/animeshelf/internal/testutil"
)

// pagedFetcher serves fixed pages and fails on demand.
type pagedFetcher struct {
	mu    sync.Mutex
	pages map[int][]catalog.Item
	fail  bool
}

func (f *pagedFetcher) FetchPage(_ context.Context, page int) (*catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, fmt.Errorf("%w: connection refused", catalog.ErrNetwork)
	}
	return &catalog.Page{Number: page, Items: f.pages[page]}, nil
}

func (f *pagedFetcher) setFail(v bool) {
	f.mu.Lock()
	f.fail = v
	f.mu.Unlock()
}

// testEnv wires the full router over a sqlite-backed store.
type testEnv struct {
	Router  http.Handler
	App     *app.App
	Store   kv.Store
	Fetcher *pagedFetcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	store := kv.NewSQLStore(testutil.NewTestDB(t))
	fetcher := &pagedFetcher{pages: map[int][]catalog.Item{
		1: {
			{ID: 20, Title: "Naruto", ImageURL: "https://cdn.example/20.jpg"},
			{ID: 5114, Title: "Fullmetal Alchemist: Brotherhood", ImageURL: "https://cdn.example/5114.jpg"},
		},
		2: {
			{ID: 1735, Title: "Naruto: Shippuuden", TitleEnglish: "Naruto Shippuden", ImageURL: "https://cdn.example/1735.jpg"},
		},
	}}

	cfg := &config.Config{}
	cfg.Store.Backend = config.BackendSQLite
	a := app.New(context.Background(), cfg, store, fetcher, log)
	t.Cleanup(func() { a.Writer.Close() })

	return &testEnv{Router: api.NewRouter(a), App: a, Store: store, Fetcher: fetcher}
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, want, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	body := decode[struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}](t, rec)
	if body.Code != code {
		t.Errorf("code = %q, want %q (error %q)", body.Code, code, body.Error)
	}
}
