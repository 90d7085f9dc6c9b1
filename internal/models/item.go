package models

import "strings"

// Item represents a single marketplace listing as returned by the Mercari
// client. Immutable once fetched.
type Item struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          int    `json:"price"`
	URL            string `json:"url"`
	Description    string `json:"description,omitempty"`
	PhotoURL       string `json:"photo_url,omitempty"`
	LocalPhotoPath string `json:"local_photo_path,omitempty"`
	IsNew          bool   `json:"is_new"`
	InStock        bool   `json:"in_stock"`
}

// Matches reports whether the item qualifies for notification under the
// given keyword: the keyword must appear as a case-insensitive substring of
// the item name, and the item must be new and in stock. The keyword check is
// intentionally repeated here even though the search already filtered by
// keyword, because the marketplace search is loose about matching.
func (it *Item) Matches(keyword string) bool {
	if !strings.Contains(strings.ToLower(it.Name), strings.ToLower(keyword)) {
		return false
	}
	return it.IsNew && it.InStock
}
