package params

import "strings"

// MaxSortKeys bounds how many sort keys are encoded or decoded.
const MaxSortKeys = 3

// SortKey is one (field, direction) pair.
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

// SortSpec is an ordered list of sort keys, primary first.
type SortSpec []SortKey

// EncodeSort renders spec as "field.asc,field.desc". It reports false for an
// empty spec.
func EncodeSort(spec SortSpec) (string, bool) {
	if len(spec) == 0 {
		return "", false
	}
	if len(spec) > MaxSortKeys {
		spec = spec[:MaxSortKeys]
	}
	parts := make([]string, 0, len(spec))
	for _, k := range spec {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		parts = append(parts, k.Field+"."+dir)
	}
	return strings.Join(parts, ","), true
}

// DecodeSort parses a sortBy value. Entries without a direction, or with an
// unknown one, sort ascending; entries with an empty field are skipped.
func DecodeSort(s string) SortSpec {
	if strings.TrimSpace(s) == "" {
		return SortSpec{}
	}
	out := SortSpec{}
	for _, part := range strings.Split(s, ",") {
		field, dir, _ := strings.Cut(strings.TrimSpace(part), ".")
		if field == "" {
			continue
		}
		out = append(out, SortKey{Field: field, Desc: dir == "desc"})
		if len(out) == MaxSortKeys {
			break
		}
	}
	return out
}

// SortParam returns the value to write under KeySortBy; nil clears it.
func SortParam(spec SortSpec) any {
	if s, ok := EncodeSort(spec); ok {
		return s
	}
	return nil
}

// Equal reports whether two specs are identical.
func (s SortSpec) Equal(o SortSpec) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}
