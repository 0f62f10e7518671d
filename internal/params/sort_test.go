package params

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeSort(t *testing.T) {
	_, ok := EncodeSort(nil)
	require.False(t, ok)

	s, ok := EncodeSort(SortSpec{{Field: "price", Desc: true}, {Field: "area"}})
	require.True(t, ok)
	require.Equal(t, "price.desc,area.asc", s)
}

func TestDecodeSort(t *testing.T) {
	tests := []struct {
		in   string
		want SortSpec
	}{
		{"", SortSpec{}},
		{"   ", SortSpec{}},
		{"close.desc", SortSpec{{Field: "close", Desc: true}}},
		{"close", SortSpec{{Field: "close"}}},
		{"close.sideways", SortSpec{{Field: "close"}}},
		{"close.desc,,.asc,volume.asc", SortSpec{{Field: "close", Desc: true}, {Field: "volume"}}},
		{"a.asc,b.desc,c.asc,d.desc", SortSpec{{Field: "a"}, {Field: "b", Desc: true}, {Field: "c"}}},
		{"date.desc.extra", SortSpec{{Field: "date"}}},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, DecodeSort(tc.in), "input %q", tc.in)
	}
}

func TestSortRoundTrip(t *testing.T) {
	specs := []SortSpec{
		{},
		{{Field: "Name"}},
		{{Field: "volume", Desc: true}},
		{{Field: "price", Desc: true}, {Field: "area"}},
		{{Field: "a"}, {Field: "b", Desc: true}, {Field: "c", Desc: true}},
	}
	for _, s := range specs {
		enc, _ := EncodeSort(s)
		require.True(t, s.Equal(DecodeSort(enc)), "spec %v via %q", s, enc)
	}
}

func TestSortParam(t *testing.T) {
	require.Nil(t, SortParam(nil))
	require.Equal(t, "open.asc", SortParam(SortSpec{{Field: "open"}}))
}
