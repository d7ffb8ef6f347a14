package corrections

import "github.com/xrash/smetrics"

// indelRatio computes a normalized similarity score in [0, 100] between two
// strings, where 100 means identical. It is based on edit distance with
// substitutions costing two (equivalent to insert plus delete), normalized
// by the combined length.
func indelRatio(a, b string) float64 {
	if a == b {
		return 100
	}
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 100 * (1 - float64(distance)/float64(total))
}
