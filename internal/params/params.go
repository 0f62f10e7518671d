// Package params holds the persisted, URL-shaped view of grid state: the
// key/value snapshot, the normalizer that keeps defaults out of it, and the
// sort codec.
package params

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Keys persisted in a snapshot.
const (
	KeySymbol           = "symbol"
	KeyVolumeThreshold  = "volumeThreshold"
	KeyDateFrom         = "dateFrom"
	KeyDateTo           = "dateTo"
	KeyBedrooms         = "bedrooms"
	KeyBathrooms        = "bathrooms"
	KeyFurnishingStatus = "furnishingstatus"
	KeyPriceMin         = "priceMin"
	KeyPriceMax         = "priceMax"
	KeyAreaMin          = "areaMin"
	KeyAreaMax          = "areaMax"
	KeyGlobalFilter     = "globalFilter"
	KeySortBy           = "sortBy"
	KeyPage             = "page"
	KeyPageSize         = "pageSize"
)

// All is the select sentinel meaning "no filter".
const All = "all"

// Params is a write-side parameter set. A nil value means "unset".
type Params map[string]any

// Snapshot is the persisted view: absent key means default.
type Snapshot map[string]string

// Clean removes entries whose value is nil, "", "all", or a NaN number.
// Zero, false, and any other non-empty string are kept.
func Clean(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		if isDefault(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isDefault(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "" || x == All
	case *string:
		return x == nil || *x == "" || *x == All
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// Merge applies partial on top of prev and cleans the result. Keys set to nil
// in partial are removed.
func Merge(prev Snapshot, partial Params) Snapshot {
	merged := make(Params, len(prev)+len(partial))
	for k, v := range prev {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}
	return toSnapshot(Clean(merged))
}

func toSnapshot(p Params) Snapshot {
	out := make(Snapshot, len(p))
	for k, v := range p {
		out[k] = format(v)
	}
	return out
}

func format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		return *x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	}
	return ""
}

// Get returns the value for key or def when absent.
func (s Snapshot) Get(key, def string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return def
}

// Clone returns a copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the snapshot keys in sorted order.
func (s Snapshot) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Query encodes the snapshot as a URL query string with sorted keys.
func (s Snapshot) Query() string {
	v := make(url.Values, len(s))
	for k, val := range s {
		v.Set(k, val)
	}
	return v.Encode()
}

// FromValues builds a cleaned snapshot from URL values. Only the first value
// of a repeated key is used.
func FromValues(v url.Values) Snapshot {
	p := make(Params, len(v))
	for k, vals := range v {
		if len(vals) == 0 {
			continue
		}
		p[k] = vals[0]
	}
	return toSnapshot(Clean(p))
}

// ParseQuery parses a query string (a leading '?' is allowed). Malformed
// input yields whatever pairs could be decoded.
func ParseQuery(raw string) Snapshot {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	v, _ := url.ParseQuery(raw)
	return FromValues(v)
}
