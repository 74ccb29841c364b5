package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/animeshelf/internal/app"
	"github.com/joestump/animeshelf/internal/catalog"
	"github.com/joestump/animeshelf/internal/favourites"
)

type animeHandler struct {
	feed *catalog.Feed
	favs *favourites.Store
}

func registerAnimeRoutes(r chi.Router, a *app.App) {
	h := &animeHandler{feed: a.Feed, favs: a.Favourites}
	r.Get("/anime", h.List)
	r.Post("/anime/refresh", h.Refresh)
	r.Post("/anime/more", h.LoadMore)
	r.Get("/anime/{id}", h.Get)
}

// List returns the merged list, filtered by ?q= when present.
// GET /anime
func (h *animeHandler) List(w http.ResponseWriter, r *http.Request) {
	state := h.feed.State()
	state.Items = catalog.Filter(state.Items, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, h.feedResponse(state))
}

// Refresh reloads page 1.
// POST /anime/refresh
func (h *animeHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.Refresh(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.feedResponse(h.feed.State()))
}

// LoadMore appends the next page. While a fetch is outstanding it returns the
// current state without fetching.
// POST /anime/more
func (h *animeHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.LoadMore(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.feedResponse(h.feed.State()))
}

// Get returns one item from the loaded list.
// GET /anime/{id}
func (h *animeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	it, found := h.feed.Item(id)
	if !found {
		writeError(w, http.StatusNotFound, "item not loaded", "not_found")
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses([]catalog.Item{it}, h.favs.IsFavourite)[0])
}

func (h *animeHandler) feedResponse(s catalog.State) *FeedResponse {
	resp := &FeedResponse{
		Items:       toItemResponses(s.Items, h.favs.IsFavourite),
		Loading:     s.Loading,
		CurrentPage: s.CurrentPage,
		Status:      string(s.Status),
	}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	return resp
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 0 {
		writeError(w, http.StatusBadRequest, "id must be an integer", "bad_request")
		return 0, false
	}
	return id, true
}
