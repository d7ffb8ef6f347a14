package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Sentinel values emitted when a product cannot be categorized.
const (
	UncategorizedCategory = "Uncategorized"
	UnknownSubcategory    = "Unknown"
	UnknownProductType    = "Unknown"
)

// Pair identifies a (category, subcategory) node in the taxonomy.
type Pair struct {
	Category    string
	Subcategory string
}

// Categorization is a resolved taxonomy leaf for a product.
// Secondary carries additional leaves implied by dual or multi category
// rules; it is empty for the common single-leaf case and its entries never
// nest further.
type Categorization struct {
	Category    string           `json:"category"`
	Subcategory string           `json:"subcategory"`
	ProductType string           `json:"product_type"`
	Secondary   []Categorization `json:"secondary,omitempty"`
}

// Uncategorized returns the sentinel categorization used when resolution
// fails outright.
func Uncategorized() Categorization {
	return Categorization{
		Category:    UncategorizedCategory,
		Subcategory: UnknownSubcategory,
		ProductType: UnknownProductType,
	}
}

// IsSentinel reports whether c is the failure sentinel.
func (c Categorization) IsSentinel() bool {
	return c.Category == UncategorizedCategory &&
		c.Subcategory == UnknownSubcategory &&
		c.ProductType == UnknownProductType
}

// Pair returns the (category, subcategory) portion of the leaf.
func (c Categorization) Pair() Pair {
	return Pair{Category: c.Category, Subcategory: c.Subcategory}
}

// Product is one batch input record. Description is required; the remaining
// fields are optional context supplied by the upstream catalog.
type Product struct {
	Description          string   `json:"description"`
	ProductID            string   `json:"productId,omitempty"`
	CategoryHints        []string `json:"categories,omitempty"`
	Brand                string   `json:"brand,omitempty"`
	CountryOrigin        string   `json:"countryOrigin,omitempty"`
	TemperatureIndicator string   `json:"temperatureIndicator,omitempty"`
}

// CandidatePhrase is a synthesized text variant representing one taxonomy
// leaf, embedded for retrieval. Built once from the taxonomy and immutable
// thereafter.
type CandidatePhrase struct {
	Text        string
	Category    string
	Subcategory string
	ProductType string
}

// Pair returns the (category, subcategory) portion of the phrase's leaf.
func (p CandidatePhrase) Pair() Pair {
	return Pair{Category: p.Category, Subcategory: p.Subcategory}
}

// CorrectionEntry is one curated prior categorization. Key is either a
// product identifier or normalized product text; IsProductID distinguishes
// the two so the text-matching stages can skip identifier keys.
type CorrectionEntry struct {
	Key         string
	IsProductID bool
	Result      Categorization
}

// NegativeExample records a known-wrong triple for a product text.
// Append-only; persisted on every addition.
type NegativeExample struct {
	Text        string
	Category    string
	Subcategory string
	ProductType string
	Timestamp   time.Time
}

// Tuple returns a string representation of the example as
// "(text,category,subcategory,productType)".
// This is used for generating deterministic IDs.
func (e *NegativeExample) Tuple() string {
	return "(" + e.Text + "," + e.Category + "," + e.Subcategory + "," + e.ProductType + ")"
}

// FailureRecord is the durable trace of a critical categorization failure.
type FailureRecord struct {
	ProductText string
	ProductID   string
	Hints       []string
	Stage       string
	Reason      string
	Timestamp   time.Time
}

// CorpusMeta describes a persisted embedded phrase corpus. Fingerprint
// covers the ordered phrase texts and the embedding model, so any taxonomy
// or model change invalidates the cached vectors.
type CorpusMeta struct {
	Fingerprint string
	Model       string
	Dimensions  int
	PhraseCount int
	BuiltAt     time.Time
}
