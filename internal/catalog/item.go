// Package catalog fetches the remote paged anime listing and merges
// successive pages into one ordered list.
package catalog

import (
	"encoding/json"
	"fmt"
)

// Item is one catalog entry. ID is the only field used for equality.
type Item struct {
	ID           int
	Title        string
	TitleEnglish string
	ImageURL     string
	Synopsis     string
}

// Page is one fetched page of the listing.
type Page struct {
	Number int
	Items  []Item
}

// itemJSON is the upstream listing shape. Items are stored locally in the
// same shape so favourites written by older clients still decode.
type itemJSON struct {
	MalID        *int        `json:"mal_id"`
	Title        *string     `json:"title"`
	TitleEnglish *string     `json:"title_english,omitempty"`
	Images       *imagesJSON `json:"images"`
	Synopsis     *string     `json:"synopsis,omitempty"`
}

type imagesJSON struct {
	JPG *struct {
		LargeImageURL *string `json:"large_image_url"`
	} `json:"jpg"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	out := itemJSON{
		MalID:  &it.ID,
		Title:  &it.Title,
		Images: &imagesJSON{},
	}
	out.Images.JPG = &struct {
		LargeImageURL *string `json:"large_image_url"`
	}{LargeImageURL: &it.ImageURL}
	if it.TitleEnglish != "" {
		out.TitleEnglish = &it.TitleEnglish
	}
	if it.Synopsis != "" {
		out.Synopsis = &it.Synopsis
	}
	return json.Marshal(out)
}

// UnmarshalJSON requires mal_id and title; the image is optional.
func (it *Item) UnmarshalJSON(b []byte) error {
	decoded, err := decodeItem(b, false)
	if err != nil {
		return err
	}
	*it = decoded
	return nil
}

// decodeItem turns one listing object into an Item. Remote pages must carry
// images.jpg.large_image_url; stored items may omit it.
func decodeItem(b []byte, requireImage bool) (Item, error) {
	var raw itemJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return Item{}, err
	}
	if raw.MalID == nil {
		return Item{}, fmt.Errorf("missing mal_id")
	}
	if raw.Title == nil {
		return Item{}, fmt.Errorf("item %d: missing title", *raw.MalID)
	}

	it := Item{ID: *raw.MalID, Title: *raw.Title}
	if raw.Images != nil && raw.Images.JPG != nil && raw.Images.JPG.LargeImageURL != nil {
		it.ImageURL = *raw.Images.JPG.LargeImageURL
	} else if requireImage {
		return Item{}, fmt.Errorf("item %d: missing images.jpg.large_image_url", it.ID)
	}
	if raw.TitleEnglish != nil {
		it.TitleEnglish = *raw.TitleEnglish
	}
	if raw.Synopsis != nil {
		it.Synopsis = *raw.Synopsis
	}
	return it, nil
}
