package retrieval

import (
	"encoding/hex"
	"strings"

	"github.com/go-crypt/x/blake2b"

	"github.com/poiesic/categorit/core"
	"github.com/poiesic/categorit/taxonomy"
)

// BuildCorpus synthesizes the candidate phrase corpus from the taxonomy.
// Deterministic: the same taxonomy always yields the same ordered slice,
// which the cache fingerprint depends on.
//
// A gridOnly subcategory contributes one phrase "<category> <subcategory>"
// whose product type is the subcategory name. An ordinary product type
// contributes "<category> <subcategory> <productType>", preceded by one
// phrase per conjunction part when the type is a compound like
// "Carrots & Celery" — the part phrases keep the full product type.
func BuildCorpus(tax *taxonomy.Store) []core.CandidatePhrase {
	var phrases []core.CandidatePhrase

	for _, category := range tax.Tree() {
		for _, sub := range category.Subcategories {
			base := category.Name + " " + sub.Name

			if len(sub.ProductTypes) == 0 {
				phrases = append(phrases, core.CandidatePhrase{
					Text:        base,
					Category:    category.Name,
					Subcategory: sub.Name,
					ProductType: sub.Name,
				})
				continue
			}

			for _, productType := range sub.ProductTypes {
				if strings.Contains(productType, "&") {
					for _, part := range strings.Split(productType, "&") {
						part = strings.TrimSpace(part)
						if part == "" {
							continue
						}
						phrases = append(phrases, core.CandidatePhrase{
							Text:        base + " " + part,
							Category:    category.Name,
							Subcategory: sub.Name,
							ProductType: productType,
						})
					}
				}
				phrases = append(phrases, core.CandidatePhrase{
					Text:        base + " " + productType,
					Category:    category.Name,
					Subcategory: sub.Name,
					ProductType: productType,
				})
			}
		}
	}

	return phrases
}

// Fingerprint hashes the ordered phrase texts together with the embedding
// model name. Any taxonomy or model change yields a new fingerprint,
// invalidating cached vectors.
func Fingerprint(phrases []core.CandidatePhrase, model string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(model))
	for _, phrase := range phrases {
		h.Write([]byte{0})
		h.Write([]byte(phrase.Text))
	}
	return hex.EncodeToString(h.Sum(nil))
}
