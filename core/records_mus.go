package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the durable record types. Field order is the wire
// format; changing it invalidates existing stores. Timestamps are stored as
// Unix nanoseconds and restored in UTC.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// CategorizationMUS serializes Categorizations, including one level of
// secondary entries.
var CategorizationMUS = categorizationMUS{}

type categorizationMUS struct{}

func (s categorizationMUS) Marshal(v Categorization, bs []byte) (n int) {
	n = ord.String.Marshal(v.Category, bs)
	n += ord.String.Marshal(v.Subcategory, bs[n:])
	n += ord.String.Marshal(v.ProductType, bs[n:])
	n += varint.Int.Marshal(len(v.Secondary), bs[n:])
	for _, sec := range v.Secondary {
		n += s.Marshal(sec, bs[n:])
	}
	return
}

func (s categorizationMUS) Unmarshal(bs []byte) (v Categorization, n int, err error) {
	var n1 int
	v.Category, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Subcategory, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ProductType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		v.Secondary = make([]Categorization, count)
		for i := 0; i < count; i++ {
			v.Secondary[i], n1, err = s.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	return
}

func (s categorizationMUS) Size(v Categorization) (size int) {
	size = ord.String.Size(v.Category)
	size += ord.String.Size(v.Subcategory)
	size += ord.String.Size(v.ProductType)
	size += varint.Int.Size(len(v.Secondary))
	for _, sec := range v.Secondary {
		size += s.Size(sec)
	}
	return
}

func (s categorizationMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 3; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < count; i++ {
		n1, err = s.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// CorrectionEntryMUS serializes CorrectionEntries.
var CorrectionEntryMUS = correctionEntryMUS{}

type correctionEntryMUS struct{}

func (s correctionEntryMUS) Marshal(v CorrectionEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Key, bs)
	n += ord.Bool.Marshal(v.IsProductID, bs[n:])
	n += CategorizationMUS.Marshal(v.Result, bs[n:])
	return
}

func (s correctionEntryMUS) Unmarshal(bs []byte) (v CorrectionEntry, n int, err error) {
	var n1 int
	v.Key, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.IsProductID, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Result, n1, err = CategorizationMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s correctionEntryMUS) Size(v CorrectionEntry) (size int) {
	size = ord.String.Size(v.Key)
	size += ord.Bool.Size(v.IsProductID)
	size += CategorizationMUS.Size(v.Result)
	return
}

func (s correctionEntryMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.Bool.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = CategorizationMUS.Skip(bs[n:])
	n += n1
	return
}

// NegativeExampleMUS serializes NegativeExamples.
var NegativeExampleMUS = negativeExampleMUS{}

type negativeExampleMUS struct{}

func (s negativeExampleMUS) Marshal(v NegativeExample, bs []byte) (n int) {
	n = ord.String.Marshal(v.Text, bs)
	n += ord.String.Marshal(v.Category, bs[n:])
	n += ord.String.Marshal(v.Subcategory, bs[n:])
	n += ord.String.Marshal(v.ProductType, bs[n:])
	n += varint.Int64.Marshal(v.Timestamp.UnixNano(), bs[n:])
	return
}

func (s negativeExampleMUS) Unmarshal(bs []byte) (v NegativeExample, n int, err error) {
	var n1 int
	v.Text, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Subcategory, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ProductType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var ns int64
	ns, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp = time.Unix(0, ns).UTC()
	return
}

func (s negativeExampleMUS) Size(v NegativeExample) (size int) {
	size = ord.String.Size(v.Text)
	size += ord.String.Size(v.Category)
	size += ord.String.Size(v.Subcategory)
	size += ord.String.Size(v.ProductType)
	size += varint.Int64.Size(v.Timestamp.UnixNano())
	return
}

func (s negativeExampleMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// FailureRecordMUS serializes FailureRecords.
var FailureRecordMUS = failureRecordMUS{}

type failureRecordMUS struct{}

func (s failureRecordMUS) Marshal(v FailureRecord, bs []byte) (n int) {
	n = ord.String.Marshal(v.ProductText, bs)
	n += ord.String.Marshal(v.ProductID, bs[n:])
	n += varint.Int.Marshal(len(v.Hints), bs[n:])
	for _, hint := range v.Hints {
		n += ord.String.Marshal(hint, bs[n:])
	}
	n += ord.String.Marshal(v.Stage, bs[n:])
	n += ord.String.Marshal(v.Reason, bs[n:])
	n += varint.Int64.Marshal(v.Timestamp.UnixNano(), bs[n:])
	return
}

func (s failureRecordMUS) Unmarshal(bs []byte) (v FailureRecord, n int, err error) {
	var n1 int
	v.ProductText, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.ProductID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if count > 0 {
		v.Hints = make([]string, count)
		for i := 0; i < count; i++ {
			v.Hints[i], n1, err = ord.String.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	v.Stage, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Reason, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var ns int64
	ns, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp = time.Unix(0, ns).UTC()
	return
}

func (s failureRecordMUS) Size(v FailureRecord) (size int) {
	size = ord.String.Size(v.ProductText)
	size += ord.String.Size(v.ProductID)
	size += varint.Int.Size(len(v.Hints))
	for _, hint := range v.Hints {
		size += ord.String.Size(hint)
	}
	size += ord.String.Size(v.Stage)
	size += ord.String.Size(v.Reason)
	size += varint.Int64.Size(v.Timestamp.UnixNano())
	return
}

func (s failureRecordMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	var count int
	count, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for i := 0; i < count+2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}

// VectorMUS serializes embedding vectors as fixed-width float32 elements.
var VectorMUS = vectorMUS{}

type vectorMUS struct{}

func (s vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func (s vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	var (
		count int
		n1    int
	)
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if count > 0 {
		v = make([]float32, count)
		for i := 0; i < count; i++ {
			v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	return
}

func (s vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return
}

func (s vectorMUS) Skip(bs []byte) (n int, err error) {
	var (
		count int
		n1    int
	)
	count, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	for i := 0; i < count; i++ {
		n1, err = raw.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// CorpusMetaMUS serializes CorpusMeta records.
var CorpusMetaMUS = corpusMetaMUS{}

type corpusMetaMUS struct{}

func (s corpusMetaMUS) Marshal(v CorpusMeta, bs []byte) (n int) {
	n = ord.String.Marshal(v.Fingerprint, bs)
	n += ord.String.Marshal(v.Model, bs[n:])
	n += varint.Int.Marshal(v.Dimensions, bs[n:])
	n += varint.Int.Marshal(v.PhraseCount, bs[n:])
	n += varint.Int64.Marshal(v.BuiltAt.UnixNano(), bs[n:])
	return
}

func (s corpusMetaMUS) Unmarshal(bs []byte) (v CorpusMeta, n int, err error) {
	var n1 int
	v.Fingerprint, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Model, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Dimensions, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PhraseCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var ns int64
	ns, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.BuiltAt = time.Unix(0, ns).UTC()
	return
}

func (s corpusMetaMUS) Size(v CorpusMeta) (size int) {
	size = ord.String.Size(v.Fingerprint)
	size += ord.String.Size(v.Model)
	size += varint.Int.Size(v.Dimensions)
	size += varint.Int.Size(v.PhraseCount)
	size += varint.Int64.Size(v.BuiltAt.UnixNano())
	return
}

func (s corpusMetaMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 2; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for i := 0; i < 2; i++ {
		n1, err = varint.Int.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	n1, err = varint.Int64.Skip(bs[n:])
	n += n1
	return
}
