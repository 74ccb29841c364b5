package api

import (
	"github.com/joestump/animeshelf/internal/account"
	"github.com/joestump/animeshelf/internal/catalog"
)

// ItemResponse is a catalog item with the caller's favourite flag.
type ItemResponse struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	TitleEnglish string `json:"title_english,omitempty"`
	ImageURL     string `json:"image_url"`
	Synopsis     string `json:"synopsis,omitempty"`
	Favourite    bool   `json:"favourite"`
}

// FeedResponse is the merged catalog list and its load state.
type FeedResponse struct {
	Items       []ItemResponse `json:"items"`
	Loading     bool           `json:"loading"`
	CurrentPage int            `json:"current_page"`
	Status      string         `json:"status"`
	Error       string         `json:"error,omitempty"`
}

// FavouritesResponse lists favourites in insertion order.
type FavouritesResponse struct {
	Items []ItemResponse `json:"items"`
	Count int            `json:"count"`
}

// ToggleResponse reports the favourite state of one item after a toggle.
type ToggleResponse struct {
	ID        int  `json:"id"`
	Favourite bool `json:"favourite"`
	FavouritesResponse
}

// UserResponse is the public view of a session. The password is never returned.
type UserResponse struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest leaves absent fields unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func toItemResponses(items []catalog.Item, isFav func(int) bool) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ItemResponse{
			ID:           it.ID,
			Title:        it.Title,
			TitleEnglish: it.TitleEnglish,
			ImageURL:     it.ImageURL,
			Synopsis:     it.Synopsis,
			Favourite:    isFav(it.ID),
		})
	}
	return out
}

func toUserResponse(s account.Session) *UserResponse {
	return &UserResponse{Username: s.Username, Email: s.Email, DisplayName: s.DisplayName()}
}
