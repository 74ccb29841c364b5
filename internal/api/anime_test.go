package api_test

import (
	"net/http"
	"testing"

	"github.com/joestump/animeshelf/internal/api"
)

func itemIDs(items []api.ItemResponse) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAnime_EmptyBeforeRefresh(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/anime", nil)
	expectStatus(t, rec, http.StatusOK)

	resp := decode[api.FeedResponse](t, rec)
	if len(resp.Items) != 0 || resp.Loading || resp.Status != "idle" {
		t.Errorf("initial state = %+v", resp)
	}
}

func TestAnime_RefreshThenMore(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/anime/refresh", nil)
	expectStatus(t, rec, http.StatusOK)
	resp := decode[api.FeedResponse](t, rec)
	if got := itemIDs(resp.Items); !equalInts(got, []int{20, 5114}) || resp.CurrentPage != 1 {
		t.Fatalf("after refresh: ids %v page %d", got, resp.CurrentPage)
	}

	rec = env.do(t, "POST", "/anime/more", nil)
	expectStatus(t, rec, http.StatusOK)
	resp = decode[api.FeedResponse](t, rec)
	if got := itemIDs(resp.Items); !equalInts(got, []int{20, 5114, 1735}) || resp.CurrentPage != 2 {
		t.Errorf("after more: ids %v page %d", got, resp.CurrentPage)
	}
}

func TestAnime_Search(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/anime/refresh", nil)
	env.do(t, "POST", "/anime/more", nil)

	tests := []struct {
		q    string
		want []int
	}{
		{"naruto", []int{20, 1735}},
		{"ALCHEMIST", []int{5114}},
		{"shippuden", []int{1735}},
		{"", []int{20, 5114, 1735}},
		{"bleach", []int{}},
	}
	for _, tt := range tests {
		rec := env.do(t, "GET", "/anime?q="+tt.q, nil)
		expectStatus(t, rec, http.StatusOK)
		if got := itemIDs(decode[api.FeedResponse](t, rec).Items); !equalInts(got, tt.want) {
			t.Errorf("q=%q: ids %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestAnime_FetchFailureKeepsState(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/anime/refresh", nil)

	env.Fetcher.setFail(true)
	expectError(t, env.do(t, "POST", "/anime/more", nil), http.StatusBadGateway, "fetch_failed")

	rec := env.do(t, "GET", "/anime", nil)
	resp := decode[api.FeedResponse](t, rec)
	if got := itemIDs(resp.Items); !equalInts(got, []int{20, 5114}) || resp.CurrentPage != 1 {
		t.Errorf("state changed by failure: ids %v page %d", got, resp.CurrentPage)
	}
	if resp.Status != "error" || resp.Error == "" || resp.Loading {
		t.Errorf("status = %q error = %q loading = %v", resp.Status, resp.Error, resp.Loading)
	}
}

func TestAnime_Get(t *testing.T) {
	env := newTestEnv(t)
	expectError(t, env.do(t, "GET", "/anime/5114", nil), http.StatusNotFound, "not_found")

	env.do(t, "POST", "/anime/refresh", nil)
	rec := env.do(t, "GET", "/anime/5114", nil)
	expectStatus(t, rec, http.StatusOK)
	it := decode[api.ItemResponse](t, rec)
	if it.Title != "Fullmetal Alchemist: Brotherhood" || it.ImageURL != "https://cdn.example/5114.jpg" {
		t.Errorf("item = %+v", it)
	}

	expectError(t, env.do(t, "GET", "/anime/abc", nil), http.StatusBadRequest, "bad_request")
}

func TestHealthzAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/healthz", nil)
	expectStatus(t, rec, http.StatusOK)
	if h := decode[api.HealthResponse](t, rec); h.Status != "ok" {
		t.Errorf("healthz = %+v", h)
	}

	expectStatus(t, env.do(t, "GET", "/metrics", nil), http.StatusOK)
	expectError(t, env.do(t, "GET", "/nope", nil), http.StatusNotFound, "not_found")
}
