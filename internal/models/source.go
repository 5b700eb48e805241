package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SourceType says how a source is ingested.
type SourceType string

const (
	SourceTypeRSS       SourceType = "RSS"
	SourceTypeWebScrape SourceType = "WEB_SCRAPE"
	SourceTypeTelegram  SourceType = "TELEGRAM"
)

// Language is the publication language of a source.
type Language string

const (
	LanguageArmenian Language = "ARMENIAN"
	LanguageRussian  Language = "RUSSIAN"
	LanguageEnglish  Language = "ENGLISH"
)

var (
	// ErrUnknownSourceType reports a type outside the closed source-type set.
	ErrUnknownSourceType = errors.New("unknown source type")
	// ErrUnknownLanguage reports a language outside the closed language set.
	ErrUnknownLanguage = errors.New("unknown language")
)

// ParseSourceType maps a case-insensitive token to its SourceType value.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(strings.ToUpper(s)) {
	case SourceTypeRSS:
		return SourceTypeRSS, nil
	case SourceTypeWebScrape:
		return SourceTypeWebScrape, nil
	case SourceTypeTelegram:
		return SourceTypeTelegram, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSourceType, s)
	}
}

// ParseLanguage maps a case-insensitive token to its Language value.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToUpper(s)) {
	case LanguageArmenian:
		return LanguageArmenian, nil
	case LanguageRussian:
		return LanguageRussian, nil
	case LanguageEnglish:
		return LanguageEnglish, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
}

// Source is an independent root referenced by articles. The last-fetch
// timestamps are written by the ingestion subsystem on each fetch attempt.
type Source struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	URL         string         `json:"url"`
	Type        SourceType     `json:"type"`
	Language    Language       `json:"language"`
	Config      map[string]any `json:"config,omitempty"`
	Active      bool           `json:"active"`
	LastFetched *time.Time     `json:"last_fetched,omitempty"`
	LastSuccess *time.Time     `json:"last_success,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
