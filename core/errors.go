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

import "errors"

// Domain validation errors
var (
	// ErrInvalidAddressRecord indicates an AddressRecord failed validation.
	ErrInvalidAddressRecord = errors.New("invalid address record")

	// ErrEmptyDisplay indicates the Display field is empty.
	ErrEmptyDisplay = errors.New("display string cannot be empty")

	// ErrNoFields indicates the record carries no address fields.
	ErrNoFields = errors.New("record must have at least one field")

	// ErrInvalidFieldType indicates a field carries an unknown FieldType value.
	ErrInvalidFieldType = errors.New("invalid field type")

	// ErrInvalidGeocode indicates a geocode lies outside WGS84 bounds.
	ErrInvalidGeocode = errors.New("geocode out of range")
)
