package core

import (
	"time"

	com "github.com/mus-format/common-go"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// Hand-maintained MUS serializers for the storage wire format. They keep the
// XxxMUS Marshal/Unmarshal/Size/Skip shape so call sites read the same as
// generated serializers. Field order is the wire format; append-only changes
// require a new key space version in storage.

// IDMUS serializes ID values.
var IDMUS = idMUS{}

// FieldMUS serializes Field values.
var FieldMUS = fieldMUS{}

// GeocodeMUS serializes Geocode values.
var GeocodeMUS = geocodeMUS{}

// AddressRecordMUS serializes AddressRecord values.
var AddressRecordMUS = addressRecordMUS{}

// CheckpointMUS serializes Checkpoint values.
var CheckpointMUS = checkpointMUS{}

var (
	_ mus.Serializer[ID]            = idMUS{}
	_ mus.Serializer[Field]         = fieldMUS{}
	_ mus.Serializer[Geocode]       = geocodeMUS{}
	_ mus.Serializer[AddressRecord] = addressRecordMUS{}
	_ mus.Serializer[Checkpoint]    = checkpointMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

func (idMUS) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type fieldMUS struct{}

func (fieldMUS) Marshal(v Field, bs []byte) (n int) {
	n = varint.Int.Marshal(int(v.Type), bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	return n
}

func (fieldMUS) Unmarshal(bs []byte) (v Field, n int, err error) {
	t, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	v.Type = FieldType(t)
	var n1 int
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (fieldMUS) Size(v Field) int {
	return varint.Int.Size(int(v.Type)) + ord.String.Size(v.Text)
}

func (fieldMUS) Skip(bs []byte) (n int, err error) {
	n, err = varint.Int.Skip(bs)
	if err != nil {
		return n, err
	}
	n1, err := ord.String.Skip(bs[n:])
	return n + n1, err
}

type geocodeMUS struct{}

func (geocodeMUS) Marshal(v Geocode, bs []byte) (n int) {
	n = raw.Float64.Marshal(v.Lat, bs)
	n += raw.Float64.Marshal(v.Lng, bs[n:])
	n += ord.Bool.Marshal(v.Valid, bs[n:])
	return n
}

func (geocodeMUS) Unmarshal(bs []byte) (v Geocode, n int, err error) {
	v.Lat, n, err = raw.Float64.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var n1 int
	v.Lng, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Valid, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (geocodeMUS) Size(v Geocode) int {
	return raw.Float64.Size(v.Lat) + raw.Float64.Size(v.Lng) + ord.Bool.Size(v.Valid)
}

func (geocodeMUS) Skip(bs []byte) (n int, err error) {
	n, err = raw.Float64.Skip(bs)
	if err != nil {
		return n, err
	}
	n1, err := raw.Float64.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = ord.Bool.Skip(bs[n:])
	return n + n1, err
}

type addressRecordMUS struct{}

func (addressRecordMUS) Marshal(v AddressRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(len(v.Fields), bs[n:])
	for _, f := range v.Fields {
		n += FieldMUS.Marshal(f, bs[n:])
	}
	n += ord.String.Marshal(v.Display, bs[n:])
	n += GeocodeMUS.Marshal(v.Geocode, bs[n:])
	return n
}

func (addressRecordMUS) Unmarshal(bs []byte) (v AddressRecord, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	count, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	if count < 0 {
		return v, n, com.ErrNegativeLength
	}
	if count > 0 {
		v.Fields = make([]Field, count)
		for i := 0; i < count; i++ {
			v.Fields[i], n1, err = FieldMUS.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return v, n, err
			}
		}
	}
	v.Display, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Geocode, n1, err = GeocodeMUS.Unmarshal(bs[n:])
	n += n1
	return v, n, err
}

func (addressRecordMUS) Size(v AddressRecord) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(len(v.Fields))
	for _, f := range v.Fields {
		size += FieldMUS.Size(f)
	}
	size += ord.String.Size(v.Display)
	size += GeocodeMUS.Size(v.Geocode)
	return size
}

func (addressRecordMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return n, err
	}
	count, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	if count < 0 {
		return n, com.ErrNegativeLength
	}
	for i := 0; i < count; i++ {
		n1, err = FieldMUS.Skip(bs[n:])
		n += n1
		if err != nil {
			return n, err
		}
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = GeocodeMUS.Skip(bs[n:])
	return n + n1, err
}

type checkpointMUS struct{}

func (checkpointMUS) Marshal(v Checkpoint, bs []byte) (n int) {
	n = ord.String.Marshal(v.Kind, bs)
	n += varint.Uint64.Marshal(v.Records, bs[n:])
	n += varint.Uint64.Marshal(v.Tokens, bs[n:])
	n += varint.Int64.Marshal(v.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (checkpointMUS) Unmarshal(bs []byte) (v Checkpoint, n int, err error) {
	v.Kind, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return v, n, err
	}
	var n1 int
	v.Records, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.Tokens, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return v, n, err
	}
	v.UpdatedAt = time.UnixMicro(micros).UTC()
	return v, n, err
}

func (checkpointMUS) Size(v Checkpoint) int {
	return ord.String.Size(v.Kind) +
		varint.Uint64.Size(v.Records) +
		varint.Uint64.Size(v.Tokens) +
		varint.Int64.Size(v.UpdatedAt.UnixMicro())
}

func (checkpointMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return n, err
	}
	n1, err := varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = varint.Uint64.Skip(bs[n:])
	n += n1
	if err != nil {
		return n, err
	}
	n1, err = varint.Int64.Skip(bs[n:])
	return n + n1, err
}
