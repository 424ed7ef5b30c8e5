package storage

import (
	"testing"

	"github.com/poiesic/resolvit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("12 smith street springvale")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalAddressRecord(t *testing.T) {
	tests := []struct {
		name   string
		record *core.AddressRecord
	}{
		{
			name: "record with geocode",
			record: &core.AddressRecord{
				Id: core.ID(1),
				Fields: []core.Field{
					{Type: core.FieldTypeNumber, Text: "12"},
					{Type: core.FieldTypeStreetName, Text: "Smith"},
					{Type: core.FieldTypeStreetType, Text: "Street"},
					{Type: core.FieldTypeLocality, Text: "Springvale"},
					{Type: core.FieldTypeRegion, Text: "VIC"},
					{Type: core.FieldTypePostcode, Text: "3171"},
				},
				Display: "12 Smith Street, Springvale VIC 3171",
				Geocode: core.Geocode{Lat: -37.9493, Lng: 145.1525, Valid: true},
			},
		},
		{
			name: "record without geocode",
			record: &core.AddressRecord{
				Id: core.ID(2),
				Fields: []core.Field{
					{Type: core.FieldTypeLocality, Text: "Kew"},
				},
				Display: "Kew",
			},
		},
		{
			name: "unicode display",
			record: &core.AddressRecord{
				Id: core.ID(3),
				Fields: []core.Field{
					{Type: core.FieldTypeStreetName, Text: "O'Shanassy"},
				},
				Display: "O'Shanassy Street, Nørre Alslev",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalAddressRecord(tt.record)
			require.NotNil(t, data)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalAddressRecord(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.record.Id, decoded.Id)
			assert.Equal(t, tt.record.Display, decoded.Display)
			assert.Equal(t, tt.record.Fields, decoded.Fields)
			assert.Equal(t, tt.record.Geocode, decoded.Geocode)
		})
	}
}

func TestUnmarshalAddressRecord_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
		{"partial data", []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalAddressRecord(tt.data)
			assert.Error(t, err)
		})
	}
}

func TestMarshalUnmarshalCheckpoint(t *testing.T) {
	checkpoint := &core.Checkpoint{
		Kind:    "full",
		Records: 1200000,
		Tokens:  84321,
	}

	data := MarshalCheckpoint(checkpoint)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalCheckpoint(data)
	require.NoError(t, err)
	assert.Equal(t, checkpoint.Kind, decoded.Kind)
	assert.Equal(t, checkpoint.Records, decoded.Records)
	assert.Equal(t, checkpoint.Tokens, decoded.Tokens)
}
