package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/joestump/animeshelf/internal/catalog"
)

func TestItemJSON_UsesListingShape(t *testing.T) {
	it := catalog.Item{ID: 21, Title: "One Piece", ImageURL: "https://cdn.example/21l.jpg"}
	b, err := json.Marshal(it)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["mal_id"] != float64(21) {
		t.Errorf("mal_id = %v, want 21", raw["mal_id"])
	}
	images, _ := raw["images"].(map[string]any)
	jpg, _ := images["jpg"].(map[string]any)
	if jpg["large_image_url"] != "https://cdn.example/21l.jpg" {
		t.Errorf("images.jpg.large_image_url = %v", jpg["large_image_url"])
	}
	if _, ok := raw["synopsis"]; ok {
		t.Error("empty synopsis should be omitted")
	}
}

func TestItemJSON_StoredItemWithoutImage(t *testing.T) {
	var it catalog.Item
	if err := json.Unmarshal([]byte(`{"mal_id": 1, "title": "Cowboy Bebop"}`), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.ID != 1 || it.Title != "Cowboy Bebop" || it.ImageURL != "" {
		t.Errorf("item = %+v", it)
	}
}

func TestItemJSON_RejectsMissingID(t *testing.T) {
	var it catalog.Item
	if err := json.Unmarshal([]byte(`{"title": "no id"}`), &it); err == nil {
		t.Error("expected error for missing mal_id")
	}
}
