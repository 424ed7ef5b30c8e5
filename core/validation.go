// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateAddressRecord validates an AddressRecord according to domain rules.
//
// Validation rules:
//   - Display must not be empty
//   - At least one field must be present
//   - Every field type must be a known FieldType
//   - A geocode marked Valid must lie within WGS84 bounds
//
// NOT validated:
//   - ID (0 is permitted; ingestion derives content IDs for such records)
//   - Field text (empty field text is skipped at index build time)
func ValidateAddressRecord(record *AddressRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidAddressRecord)
	}

	if record.Display == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAddressRecord, ErrEmptyDisplay)
	}

	if len(record.Fields) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAddressRecord, ErrNoFields)
	}

	for _, f := range record.Fields {
		if err := ValidateFieldType(f.Type); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAddressRecord, err)
		}
	}

	if err := ValidateGeocode(record.Geocode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAddressRecord, err)
	}

	return nil
}

// ValidateFieldType validates that a FieldType has a valid value.
func ValidateFieldType(t FieldType) error {
	if t < FieldTypeUnit || t > FieldTypePostcode {
		return fmt.Errorf("%w: value %d", ErrInvalidFieldType, t)
	}
	return nil
}

// ValidateGeocode checks WGS84 bounds for geocodes marked Valid.
// An invalid (absent) geocode always passes.
func ValidateGeocode(g Geocode) error {
	if !g.Valid {
		return nil
	}
	if g.Lat < -90 || g.Lat > 90 || g.Lng < -180 || g.Lng > 180 {
		return fmt.Errorf("%w: lat=%v lng=%v", ErrInvalidGeocode, g.Lat, g.Lng)
	}
	return nil
}
