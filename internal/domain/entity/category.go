package entity

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// AttractionCategory is a point-of-interest category code understood by the
// places API.
type AttractionCategory string

const (
	CategoryHistoric     AttractionCategory = "historic"
	CategoryCultural     AttractionCategory = "cultural"
	CategoryArchitecture AttractionCategory = "architecture"
	CategoryNatural      AttractionCategory = "natural"
	CategoryReligion     AttractionCategory = "religion"
	CategorySport        AttractionCategory = "sport"
)

// CategoryDisplayNames maps category codes to the names shown to users.
var CategoryDisplayNames = map[AttractionCategory]string{
	CategoryHistoric:     "Historical",
	CategoryCultural:     "Cultural",
	CategoryArchitecture: "Architecture",
	CategoryNatural:      "Natural",
	CategoryReligion:     "Religion",
	CategorySport:        "Sport",
}

// AllAttractionCategories returns the full category universe in a stable order.
func AllAttractionCategories() []AttractionCategory {
	return []AttractionCategory{
		CategoryHistoric,
		CategoryCultural,
		CategoryArchitecture,
		CategoryNatural,
		CategoryReligion,
		CategorySport,
	}
}

// IsValidCategory reports whether code belongs to the fixed category enumeration.
func IsValidCategory(code AttractionCategory) bool {
	_, ok := CategoryDisplayNames[code]
	return ok
}

// ParseCategories decodes a URL-encoded JSON array of category codes.
// Unknown codes and malformed payloads are rejected.
func ParseCategories(raw string) ([]AttractionCategory, error) {
	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid categories encoding: %w", err)
	}

	var codes []AttractionCategory
	if err := json.Unmarshal([]byte(decoded), &codes); err != nil {
		return nil, fmt.Errorf("categories must be a JSON array: %w", err)
	}

	for _, code := range codes {
		if !IsValidCategory(code) {
			return nil, fmt.Errorf("unknown attraction category: %s", code)
		}
	}

	return codes, nil
}
