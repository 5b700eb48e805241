package models

import "time"

// Topic is a per-caller watchlist of keywords and sources. OwnerKey is the
// opaque caller identity threaded in by the API layer; every topic
// operation is scoped by it.
type Topic struct {
	ID           int64     `json:"id"`
	OwnerKey     string    `json:"-"`
	Name         string    `json:"name"`
	Keywords     []string  `json:"keywords"`
	SourceIDs    []int64   `json:"source_ids,omitempty"`
	GlobalSearch bool      `json:"global_search"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
