package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/categorit/core"
)

// Key prefixes for different data types
const (
	correctionPrefix = "corr"
	negativePrefix   = "neg"
	failurePrefix    = "fail"
	vectorPrefix     = "vec"
	vectorMetaPrefix = "vecmeta"
)

// makeCorrectionKey generates a key for a correction entry.
// The ID is content-derived from the entry key text, so re-adding the same
// correction overwrites rather than duplicates.
func makeCorrectionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", correctionPrefix, id))
}

// makeNegativeKey generates a key for a negative example.
func makeNegativeKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", negativePrefix, id))
}

// makeFailureKey generates a key for a failure record.
func makeFailureKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", failurePrefix, id))
}

// makeVectorKey generates a composite key for one corpus vector.
// Format: prefix:fingerprint:index, with the index in BigEndian order so
// iteration returns vectors in phrase order.
func makeVectorKey(fingerprint string, index int) []byte {
	prefix := vectorPrefix + ":" + fingerprint + ":"
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(index))
	return buf
}

// makeVectorScanPrefix generates the iteration prefix for a corpus.
func makeVectorScanPrefix(fingerprint string) []byte {
	return []byte(vectorPrefix + ":" + fingerprint + ":")
}

// makeVectorMetaKey generates the key for a corpus metadata record.
func makeVectorMetaKey(fingerprint string) []byte {
	return []byte(vectorMetaPrefix + ":" + fingerprint)
}
