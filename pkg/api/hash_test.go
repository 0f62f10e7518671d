package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRow_Hash(t *testing.T) {
	base := Row{Fields: map[string]any{
		"Name":   "SPY",
		"close":  268.77,
		"volume": float64(86655749),
	}}

	t.Run("identical rows produce identical hashes", func(t *testing.T) {
		r1 := Row{Fields: map[string]any{"Name": "SPY", "close": 268.77, "volume": float64(86655749)}}
		assert.Equal(t, base.Hash(), r1.Hash())
	})

	t.Run("id is ignored", func(t *testing.T) {
		r1 := base
		r1.ID = "row-1"
		assert.Equal(t, base.Hash(), r1.Hash())
	})

	t.Run("value changes the hash", func(t *testing.T) {
		r1 := Row{Fields: map[string]any{"Name": "QQQ", "close": 268.77, "volume": float64(86655749)}}
		assert.NotEqual(t, base.Hash(), r1.Hash())
	})

	t.Run("type changes the hash", func(t *testing.T) {
		r1 := Row{Fields: map[string]any{"Name": "SPY", "close": "268.77", "volume": float64(86655749)}}
		assert.NotEqual(t, base.Hash(), r1.Hash())
	})
}

func TestChecksum(t *testing.T) {
	a := Checksum([]byte("price,area\n100,20\n"))
	b := Checksum([]byte("price,area\n100,20\n"))
	c := Checksum([]byte("price,area\n100,21\n"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
