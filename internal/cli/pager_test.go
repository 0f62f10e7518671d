package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/gridspike/internal/present"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestPagerCommand(t *testing.T) {
	assert.Equal(t, defaultPager, pagerCommand(present.ModePlain, envOf(nil)))
	assert.Equal(t, "more", pagerCommand(present.ModePlain, envOf(map[string]string{"PAGER": "more"})))
	assert.Equal(t, "most", pagerCommand(present.ModeJSON, envOf(map[string]string{"PAGER": "more", "GRIDSPIKE_PAGER": "most"})))
	assert.Empty(t, pagerCommand(present.ModePlain, envOf(map[string]string{"GRIDSPIKE_PAGER": "cat", "PAGER": "more"})))
	assert.Empty(t, pagerCommand(present.ModePretty, envOf(map[string]string{"PAGER": "-"})))
	assert.Empty(t, pagerCommand(present.ModeNDJSON, envOf(map[string]string{"PAGER": "more"})))
}

func TestWithPagerWritesDirectlyOffTerminal(t *testing.T) {
	t.Setenv("GRIDSPIKE_PAGER", "false")
	var out, errOut bytes.Buffer
	err := withPager(context.Background(), present.ModePlain, &out, &errOut, func(w io.Writer) error {
		_, err := io.WriteString(w, "row\n")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "row\n", out.String())
}
