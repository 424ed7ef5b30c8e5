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


package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/poiesic/resolvit/core"
)

// TSV column layout consumed by ParseTSVLine. The first seven columns are
// positional and may be empty; latitude and longitude are optional.
var tsvColumns = []core.FieldType{
	core.FieldTypeUnit,
	core.FieldTypeNumber,
	core.FieldTypeStreetName,
	core.FieldTypeStreetType,
	core.FieldTypeLocality,
	core.FieldTypeRegion,
	core.FieldTypePostcode,
}

// ErrMalformedTSV is returned for lines that do not fit the column layout.
var ErrMalformedTSV = errors.New("malformed tsv line")

// ParseTSVLine converts one tab-separated corpus line into an address
// record: unit, number, street name, street type, locality, region,
// postcode, then optional latitude and longitude. Empty columns are
// skipped; the display string is assembled from the populated fields and
// the ID is left for the store to derive. Blank lines and lines starting
// with '#' return nil, nil.
func ParseTSVLine(line string) (*core.AddressRecord, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	cols := strings.Split(line, "\t")
	if len(cols) < len(tsvColumns) || len(cols) > len(tsvColumns)+2 {
		return nil, fmt.Errorf("%w: %d columns", ErrMalformedTSV, len(cols))
	}

	fields := make([]core.Field, 0, len(tsvColumns))
	for i, t := range tsvColumns {
		text := strings.TrimSpace(cols[i])
		if text == "" {
			continue
		}
		fields = append(fields, core.Field{Type: t, Text: text})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: all address columns empty", ErrMalformedTSV)
	}

	record := &core.AddressRecord{
		Fields:  fields,
		Display: core.DisplayFromFields(fields),
	}

	if len(cols) == len(tsvColumns)+2 {
		lat, err := strconv.ParseFloat(strings.TrimSpace(cols[7]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: latitude %q", ErrMalformedTSV, cols[7])
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(cols[8]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: longitude %q", ErrMalformedTSV, cols[8])
		}
		record.Geocode = core.Geocode{Lat: lat, Lng: lng, Valid: true}
	} else if len(cols) == len(tsvColumns)+1 {
		return nil, fmt.Errorf("%w: latitude without longitude", ErrMalformedTSV)
	}

	if err := core.ValidateAddressRecord(record); err != nil {
		return nil, err
	}
	return record, nil
}
