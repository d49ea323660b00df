package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for artifact records. Each serializer follows the mus-go
// shape: Marshal writes into a buffer sized by Size, Unmarshal returns the
// value and the number of bytes consumed.

var (
	HitsMUS          = hitsMUS{}
	IndexMetadataMUS = indexMetadataMUS{}
	OccurrenceMUS    = occurrenceMUS{}
	OccurrencesMUS   = occurrencesMUS{}
	SearchMUS        = searchMUS{}
	IDMUS            = idMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (idMUS) Size(v ID) int {
	return varint.Uint64.Size(uint64(v))
}

type timeMUS struct{}

var timeMicroMUS = timeMUS{}

func (timeMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeMUS) Size(v time.Time) int {
	return varint.Int64.Size(v.UnixMicro())
}

// hitsMUS encodes a sorted hit list with delta-encoded positions.
type hitsMUS struct{}

func (hitsMUS) Marshal(v []Hit, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	prev := 0
	for _, h := range v {
		n += varint.Int.Marshal(h.Position-prev, bs[n:])
		n += varint.Int.Marshal(h.Skip, bs[n:])
		prev = h.Position
	}
	return n
}

func (hitsMUS) Unmarshal(bs []byte) (v []Hit, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	v = make([]Hit, length)
	prev := 0
	var m int
	for i := range v {
		var delta int
		delta, m, err = varint.Int.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
		v[i].Position = prev + delta
		prev = v[i].Position
		v[i].Skip, m, err = varint.Int.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return v, n, nil
}

func (hitsMUS) Size(v []Hit) (size int) {
	size = varint.PositiveInt.Size(len(v))
	prev := 0
	for _, h := range v {
		size += varint.Int.Size(h.Position - prev)
		size += varint.Int.Size(h.Skip)
		prev = h.Position
	}
	return size
}

type indexMetadataMUS struct{}

func (indexMetadataMUS) Marshal(v IndexMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.Version, bs)
	n += IDMUS.Marshal(v.BuildID, bs[n:])
	n += timeMicroMUS.Marshal(v.CreatedAt, bs[n:])
	n += varint.Int.Marshal(v.TextLength, bs[n:])
	n += ord.String.Marshal(v.TextHash, bs[n:])
	n += varint.Int.Marshal(v.MinSkip, bs[n:])
	n += varint.Int.Marshal(v.MaxSkip, bs[n:])
	n += varint.Int.Marshal(v.DictionarySize, bs[n:])
	n += varint.Int.Marshal(v.MinWordLength, bs[n:])
	n += varint.Int.Marshal(v.MaxWordLength, bs[n:])
	n += varint.Int.Marshal(v.TotalWords, bs[n:])
	n += varint.Int.Marshal(v.TotalOccurrences, bs[n:])
	return n
}

func (indexMetadataMUS) Unmarshal(bs []byte) (v IndexMetadata, n int, err error) {
	var m int
	v.Version, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.BuildID, m, err = IDMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.CreatedAt, m, err = timeMicroMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.TextLength, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.TextHash, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	for _, field := range []*int{
		&v.MinSkip, &v.MaxSkip, &v.DictionarySize, &v.MinWordLength,
		&v.MaxWordLength, &v.TotalWords, &v.TotalOccurrences,
	} {
		*field, m, err = varint.Int.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return v, n, nil
}

func (indexMetadataMUS) Size(v IndexMetadata) (size int) {
	size = ord.String.Size(v.Version)
	size += IDMUS.Size(v.BuildID)
	size += timeMicroMUS.Size(v.CreatedAt)
	size += varint.Int.Size(v.TextLength)
	size += ord.String.Size(v.TextHash)
	for _, field := range []int{
		v.MinSkip, v.MaxSkip, v.DictionarySize, v.MinWordLength,
		v.MaxWordLength, v.TotalWords, v.TotalOccurrences,
	} {
		size += varint.Int.Size(field)
	}
	return size
}

type occurrenceMUS struct{}

func (occurrenceMUS) Marshal(v Occurrence, bs []byte) (n int) {
	n = ord.String.Marshal(v.Word, bs)
	n += varint.Int.Marshal(v.Position, bs[n:])
	n += varint.Int.Marshal(v.Skip, bs[n:])
	return n
}

func (occurrenceMUS) Unmarshal(bs []byte) (v Occurrence, n int, err error) {
	var m int
	v.Word, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Position, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.Skip, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	return
}

func (occurrenceMUS) Size(v Occurrence) int {
	return ord.String.Size(v.Word) + varint.Int.Size(v.Position) + varint.Int.Size(v.Skip)
}

type occurrencesMUS struct{}

func (occurrencesMUS) Marshal(v []Occurrence, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, o := range v {
		n += OccurrenceMUS.Marshal(o, bs[n:])
	}
	return n
}

func (occurrencesMUS) Unmarshal(bs []byte) (v []Occurrence, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	v = make([]Occurrence, length)
	var m int
	for i := range v {
		v[i], m, err = OccurrenceMUS.Unmarshal(bs[n:])
		n += m
		if err != nil {
			return
		}
	}
	return v, n, nil
}

func (occurrencesMUS) Size(v []Occurrence) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, o := range v {
		size += OccurrenceMUS.Size(o)
	}
	return size
}

type searchMUS struct{}

func (searchMUS) Marshal(v SearchArtifact, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Key, bs)
	n += ord.String.Marshal(v.Pattern, bs[n:])
	n += varint.Int.Marshal(v.MinSkip, bs[n:])
	n += varint.Int.Marshal(v.MaxSkip, bs[n:])
	n += ord.String.Marshal(v.TextHash, bs[n:])
	n += timeMicroMUS.Marshal(v.CreatedAt, bs[n:])
	n += OccurrencesMUS.Marshal(v.Occurrences, bs[n:])
	return n
}

func (searchMUS) Unmarshal(bs []byte) (v SearchArtifact, n int, err error) {
	var m int
	v.Key, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Pattern, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.MinSkip, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.MaxSkip, m, err = varint.Int.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.TextHash, m, err = ord.String.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.CreatedAt, m, err = timeMicroMUS.Unmarshal(bs[n:])
	n += m
	if err != nil {
		return
	}
	v.Occurrences, m, err = OccurrencesMUS.Unmarshal(bs[n:])
	n += m
	return
}

func (searchMUS) Size(v SearchArtifact) int {
	return IDMUS.Size(v.Key) +
		ord.String.Size(v.Pattern) +
		varint.Int.Size(v.MinSkip) +
		varint.Int.Size(v.MaxSkip) +
		ord.String.Size(v.TextHash) +
		timeMicroMUS.Size(v.CreatedAt) +
		OccurrencesMUS.Size(v.Occurrences)
}
