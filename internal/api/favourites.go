package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/animeshelf/internal/app"
	"github.com/joestump/animeshelf/internal/catalog"
	"github.com/joestump/animeshelf/internal/favourites"
)

type favouritesHandler struct {
	feed *catalog.Feed
	favs *favourites.Store
}

func registerFavouriteRoutes(r chi.Router, a *app.App) {
	h := &favouritesHandler{feed: a.Feed, favs: a.Favourites}
	r.Get("/favourites", h.List)
	r.Post("/favourites/{id}/toggle", h.Toggle)
}

// List returns favourites in the order they were added.
// GET /favourites
func (h *favouritesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.listResponse(h.favs.List()))
}

// Toggle adds or removes one item. The item is taken from the loaded list,
// then from the current favourites, then from the request body (listing shape).
// POST /favourites/{id}/toggle
func (h *favouritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	item, found := h.lookup(id)
	if !found {
		var body catalog.Item
		err := json.NewDecoder(r.Body).Decode(&body)
		switch {
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusNotFound, "item not loaded; send it in the body", "not_found")
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, "invalid item: "+err.Error(), "bad_request")
			return
		case body.ID != id:
			writeError(w, http.StatusBadRequest, "body mal_id does not match path id", "bad_request")
			return
		}
		item = body
	}

	set := h.favs.Toggle(item)
	writeJSON(w, http.StatusOK, &ToggleResponse{
		ID:                 id,
		Favourite:          h.favs.IsFavourite(id),
		FavouritesResponse: *h.listResponse(set),
	})
}

func (h *favouritesHandler) lookup(id int) (catalog.Item, bool) {
	if it, ok := h.feed.Item(id); ok {
		return it, true
	}
	for _, it := range h.favs.List() {
		if it.ID == id {
			return it, true
		}
	}
	return catalog.Item{}, false
}

func (h *favouritesHandler) listResponse(items []catalog.Item) *FavouritesResponse {
	return &FavouritesResponse{
		Items: toItemResponses(items, func(int) bool { return true }),
		Count: len(items),
	}
}
