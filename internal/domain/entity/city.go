package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Attraction is a single point-of-interest record. When the upstream places
// call fails the list holds exactly one marker entry with FetchFailed set,
// which keeps "fetch failed" distinguishable from "zero attractions found".
type Attraction struct {
	Name        string `json:"name"`
	Kinds       string `json:"kinds"`
	FetchFailed bool   `json:"_fetchFailed,omitempty"`
	Message     string `json:"message,omitempty"`
}

// AttractionList is the persisted attractions blob. Older snapshots stored it
// as a JSON-encoded string or as a GeoJSON {features:[...]} wrapper, so the
// scan path tolerates all three shapes and normalizes exactly once here.
type AttractionList []Attraction

// NewFetchFailureMarker builds the sentinel list that stands in for
// attractions when the upstream call failed.
func NewFetchFailureMarker(message string) AttractionList {
	return AttractionList{{FetchFailed: true, Message: message}}
}

// HasFetchFailure reports whether the list is the fetch-failure sentinel.
func (l AttractionList) HasFetchFailure() bool {
	return len(l) == 1 && l[0].FetchFailed
}

// FailureMessage returns the human-readable message carried by the
// fetch-failure sentinel, or an empty string when there is none.
func (l AttractionList) FailureMessage() string {
	if !l.HasFetchFailure() {
		return ""
	}
	if l[0].Message != "" {
		return l[0].Message
	}
	return "No attractions available"
}

// UnmarshalJSON normalizes the three known persisted shapes into a plain
// attraction array: a JSON string holding a serialized array, a GeoJSON
// features wrapper, or the array itself.
func (l *AttractionList) UnmarshalJSON(data []byte) error {
	var plain []Attraction
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = plain
		return nil
	}

	var nested string
	if err := json.Unmarshal(data, &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &plain); err != nil {
			return fmt.Errorf("attractions stored as string but not a valid array: %w", err)
		}
		*l = plain
		return nil
	}

	var wrapper struct {
		Features []Attraction `json:"features"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("unrecognized attractions shape: %w", err)
	}
	*l = wrapper.Features
	return nil
}

// Scan implements sql.Scanner so gorm can read the jsonb column.
func (l *AttractionList) Scan(value any) error {
	if value == nil {
		*l = AttractionList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AttractionList", value)
	}

	if len(data) == 0 {
		*l = AttractionList{}
		return nil
	}
	return l.UnmarshalJSON(data)
}

// Value implements driver.Valuer; attractions are always written back as a
// plain array so the tolerant read path is only needed for legacy rows.
func (l AttractionList) Value() (driver.Value, error) {
	if l == nil {
		l = AttractionList{}
	}
	data, err := json.Marshal([]Attraction(l))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// City is a persisted aggregation snapshot, keyed by the search term that
// produced it.
type City struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	SearchTerm  string         `gorm:"index" json:"searchTerm"`
	Name        string         `json:"name"`
	CountryName string         `json:"countryName"`
	Population  int64          `json:"population"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Attractions AttractionList `gorm:"type:jsonb" json:"attractions"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// SnapshotID derives the identity used for deduplication and UI keys.
// It is name plus latitude and is not globally unique; two cities with the
// same name at the same latitude collide, a known limitation.
func (c *City) SnapshotID() string {
	return c.Name + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}
