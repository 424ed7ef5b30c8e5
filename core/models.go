package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or assigned by the corpus source.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FieldType identifies the role of one component of a postal address.
type FieldType int

const (
	// FieldTypeUnit is a flat, apartment or suite designator.
	FieldTypeUnit FieldType = iota + 1
	// FieldTypeNumber is the street number, possibly a range like "12-14".
	FieldTypeNumber
	// FieldTypeStreetName is the name portion of the street.
	FieldTypeStreetName
	// FieldTypeStreetType is the street classifier (street, road, avenue).
	FieldTypeStreetType
	// FieldTypeLocality is the suburb, town or city.
	FieldTypeLocality
	// FieldTypeRegion is the state, province or territory.
	FieldTypeRegion
	// FieldTypePostcode is the postal code.
	FieldTypePostcode
)

var fieldTypeNames = map[FieldType]string{
	FieldTypeUnit:       "unit",
	FieldTypeNumber:     "number",
	FieldTypeStreetName: "street_name",
	FieldTypeStreetType: "street_type",
	FieldTypeLocality:   "locality",
	FieldTypeRegion:     "region",
	FieldTypePostcode:   "postcode",
}

// String returns the stable textual name of the field type.
func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseFieldType resolves a textual field name back to its FieldType.
// Names are matched case-insensitively. Returns false for unknown names.
func ParseFieldType(name string) (FieldType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range fieldTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Field is one typed component of an address, holding its display text.
type Field struct {
	Type FieldType
	Text string
}

// Geocode is a WGS84 coordinate pair. Valid reports whether the corpus
// supplied coordinates for the record; a zero Geocode means "no geocode".
type Geocode struct {
	Lat   float64
	Lng   float64
	Valid bool
}

// AddressRecord represents a single corpus address.
// Records are immutable once loaded into an index shard.
type AddressRecord struct {
	Id      ID
	Fields  []Field // Ordered: unit, number, street name, street type, locality, region, postcode
	Display string  // Denormalized display string for the whole address
	Geocode Geocode
}

// FieldText returns the display text of the first field of the given type,
// or the empty string if the record has no such field.
func (r *AddressRecord) FieldText(t FieldType) string {
	for _, f := range r.Fields {
		if f.Type == t {
			return f.Text
		}
	}
	return ""
}

// DisplayFromFields assembles a conventional single-line display string:
// "unit/number street name street type, locality region postcode".
// Empty fields are skipped.
func DisplayFromFields(fields []Field) string {
	var street, place []string
	var unit, number string

	for _, f := range fields {
		if f.Text == "" {
			continue
		}
		switch f.Type {
		case FieldTypeUnit:
			unit = f.Text
		case FieldTypeNumber:
			number = f.Text
		case FieldTypeStreetName, FieldTypeStreetType:
			street = append(street, f.Text)
		case FieldTypeLocality, FieldTypeRegion, FieldTypePostcode:
			place = append(place, f.Text)
		}
	}

	switch {
	case unit != "" && number != "":
		street = append([]string{unit + "/" + number}, street...)
	case number != "":
		street = append([]string{number}, street...)
	case unit != "":
		street = append([]string{unit}, street...)
	}

	left := strings.Join(street, " ")
	right := strings.Join(place, " ")
	switch {
	case left == "":
		return right
	case right == "":
		return left
	default:
		return left + ", " + right
	}
}

// Span is a highlighted character range within one field's display text.
// Start is inclusive, End exclusive.
type Span struct {
	Field FieldType
	Start int
	End   int
}

// MatchResult is one ranked candidate produced by a resolve call.
type MatchResult struct {
	Id      ID
	Display string
	Score   float64
	Geocode Geocode // Valid=false serializes as a null geocode
	Spans   []Span  // Ordered by field position, then span start
}

// Checkpoint records the outcome of the last successful index build.
type Checkpoint struct {
	Kind      string // build kind, e.g. "full"
	Records   uint64
	Tokens    uint64
	UpdatedAt time.Time
}
