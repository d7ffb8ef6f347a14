package core

import (
	"reflect"
	"testing"
	"time"
)

func TestCategorizationMUS_RoundTrip(t *testing.T) {
	in := Categorization{
		Category:    "Dairy & Eggs",
		Subcategory: "Milk",
		ProductType: "Whole Milk",
		Secondary: []Categorization{
			{Category: "Beverages", Subcategory: "Milk", ProductType: "Whole Milk"},
			{Category: "Deli", Subcategory: "Cheese", ProductType: "Cheddar"},
		},
	}

	buf := make([]byte, CategorizationMUS.Size(in))
	n := CategorizationMUS.Marshal(in, buf)
	if n != len(buf) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(buf))
	}

	out, n, err := CategorizationMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if n != len(buf) {
		t.Errorf("Unmarshal consumed %d bytes, want %d", n, len(buf))
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}

	skipped, err := CategorizationMUS.Skip(buf)
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if skipped != len(buf) {
		t.Errorf("Skip consumed %d bytes, want %d", skipped, len(buf))
	}
}

func TestNegativeExampleMUS_RoundTrip(t *testing.T) {
	in := NegativeExample{
		Text:        "acme salsa",
		Category:    "Snacks & Candy",
		Subcategory: "Dips",
		ProductType: "Salsa",
		Timestamp:   time.Date(2025, 6, 3, 14, 30, 0, 0, time.UTC),
	}

	buf := make([]byte, NegativeExampleMUS.Size(in))
	NegativeExampleMUS.Marshal(in, buf)

	out, _, err := NegativeExampleMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("timestamp = %v, want %v", out.Timestamp, in.Timestamp)
	}
	out.Timestamp = in.Timestamp
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestCorrectionEntryMUS_RoundTrip(t *testing.T) {
	in := CorrectionEntry{
		Key:         "0001111041700",
		IsProductID: true,
		Result: Categorization{
			Category:    "Dairy & Eggs",
			Subcategory: "Milk",
			ProductType: "Whole Milk",
		},
	}

	buf := make([]byte, CorrectionEntryMUS.Size(in))
	CorrectionEntryMUS.Marshal(in, buf)

	out, _, err := CorrectionEntryMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestFailureRecordMUS_RoundTrip(t *testing.T) {
	in := FailureRecord{
		ProductText: "mystery item 9000",
		ProductID:   "0009999999999",
		Hints:       []string{"Dairy", "Frozen"},
		Stage:       "PAIR_SELECTION",
		Reason:      "no candidates survived filtering",
		Timestamp:   time.Date(2025, 7, 12, 9, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, FailureRecordMUS.Size(in))
	n := FailureRecordMUS.Marshal(in, buf)
	if n != len(buf) {
		t.Fatalf("Marshal wrote %d bytes, Size reported %d", n, len(buf))
	}

	out, _, err := FailureRecordMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("timestamp = %v, want %v", out.Timestamp, in.Timestamp)
	}
	out.Timestamp = in.Timestamp
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}

	skipped, err := FailureRecordMUS.Skip(buf)
	if err != nil {
		t.Fatalf("Skip() error = %v", err)
	}
	if skipped != len(buf) {
		t.Errorf("Skip consumed %d bytes, want %d", skipped, len(buf))
	}
}

func TestVectorMUS_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
	}{
		{
			name: "typical vector",
			in:   []float32{0.25, -0.5, 0.125, 1.0, -0.0625},
		},
		{
			name: "empty vector",
			in:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, VectorMUS.Size(tt.in))
			VectorMUS.Marshal(tt.in, buf)

			out, n, err := VectorMUS.Unmarshal(buf)
			if err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if n != len(buf) {
				t.Errorf("Unmarshal consumed %d bytes, want %d", n, len(buf))
			}
			if len(out) != len(tt.in) {
				t.Fatalf("length = %d, want %d", len(out), len(tt.in))
			}
			for i := range tt.in {
				if out[i] != tt.in[i] {
					t.Errorf("element %d = %v, want %v", i, out[i], tt.in[i])
				}
			}
		})
	}
}

func TestCorpusMetaMUS_RoundTrip(t *testing.T) {
	in := CorpusMeta{
		Fingerprint: "3c6e0b8a9c15224a",
		Model:       "nomic-embed-text",
		Dimensions:  768,
		PhraseCount: 2412,
		BuiltAt:     time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	buf := make([]byte, CorpusMetaMUS.Size(in))
	CorpusMetaMUS.Marshal(in, buf)

	out, _, err := CorpusMetaMUS.Unmarshal(buf)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !out.BuiltAt.Equal(in.BuiltAt) {
		t.Errorf("BuiltAt = %v, want %v", out.BuiltAt, in.BuiltAt)
	}
	out.BuiltAt = in.BuiltAt
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}
