package api

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the row fields.
// Keys are visited in sorted order; the row ID is not included.
func (r Row) Hash() string {
	h := blake3.New()

	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(fmt.Sprintf("%T:%v", r.Fields[k], r.Fields[k])))
		h.Write([]byte{0})
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}

// Checksum hashes raw dataset bytes.
func Checksum(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
