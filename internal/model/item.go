package model

import (
	"regexp"
	"time"
)

// ItemType discriminates the two item variants.
type ItemType string

const (
	TypeBookmark ItemType = "bookmark"
	TypeFolder   ItemType = "folder"
)

const (
	DefaultIcon        = "fas fa-bookmark"
	DefaultFolderColor = "#e3f2fd"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// IsHexColor reports whether s is a #rrggbb folder color.
func IsHexColor(s string) bool {
	return hexColor.MatchString(s)
}

// Item is either a bookmark (leaf with a URL) or a folder (ordered children).
// Fields of the other variant stay at their zero value.
type Item struct {
	ID        string    `json:"id"`
	Type      ItemType  `json:"type"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Bookmark
	URL        string `json:"url,omitempty"`
	Icon       string `json:"icon,omitempty"`
	IsFavorite bool   `json:"isFavorite,omitempty"`

	// Folder
	Color     string `json:"color,omitempty"`
	Collapsed bool   `json:"collapsed,omitempty"`
	Children  []Item `json:"children,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (i *Item) IsFolder() bool {
	return i.Type == TypeFolder
}

// IsBookmark reports whether the item is a bookmark.
func (i *Item) IsBookmark() bool {
	return i.Type == TypeBookmark
}

// NewBookmarkParams holds parameters for creating a new bookmark.
type NewBookmarkParams struct {
	Title      string
	URL        string
	Icon       string
	IsFavorite bool
}

// NewBookmark creates a bookmark with a generated ID and timestamps.
func NewBookmark(params NewBookmarkParams) Item {
	icon := params.Icon
	if icon == "" {
		icon = DefaultIcon
	}

	now := time.Now()
	return Item{
		ID:         GenerateID(),
		Type:       TypeBookmark,
		Title:      params.Title,
		URL:        params.URL,
		Icon:       icon,
		IsFavorite: params.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewFolderParams holds parameters for creating a new folder.
type NewFolderParams struct {
	Title string
	Color string
}

// NewFolder creates an empty folder with a generated ID and timestamps.
func NewFolder(params NewFolderParams) Item {
	color := params.Color
	if color == "" {
		color = DefaultFolderColor
	}

	now := time.Now()
	return Item{
		ID:        GenerateID(),
		Type:      TypeFolder,
		Title:     params.Title,
		Color:     color,
		Children:  []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ItemPatch holds the fields to merge into an existing item.
// Nil fields are left untouched.
type ItemPatch struct {
	Title      *string
	URL        *string
	Icon       *string
	IsFavorite *bool
	Color      *string
	Collapsed  *bool
}

func (p ItemPatch) touchesBookmark() bool {
	return p.URL != nil || p.Icon != nil || p.IsFavorite != nil
}

func (p ItemPatch) touchesFolder() bool {
	return p.Color != nil || p.Collapsed != nil
}

// cloneItem returns a deep copy of the item and its subtree.
func cloneItem(i Item) Item {
	if i.Children == nil {
		return i
	}
	children := make([]Item, len(i.Children))
	for k := range i.Children {
		children[k] = cloneItem(i.Children[k])
	}
	i.Children = children
	return i
}

// ids appends the ID of the item and every descendant.
func (i *Item) ids(dst []string) []string {
	dst = append(dst, i.ID)
	for k := range i.Children {
		dst = i.Children[k].ids(dst)
	}
	return dst
}

// contains reports whether id names a descendant of the item.
func (i *Item) contains(id string) bool {
	return findIn(i.Children, id) != nil
}

func findIn(items []Item, id string) *Item {
	for k := range items {
		if items[k].ID == id {
			return &items[k]
		}
		if found := findIn(items[k].Children, id); found != nil {
			return found
		}
	}
	return nil
}
