package cli

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"

	"github.com/mithrel/gridspike/internal/present"
)

const defaultPager = "less -FRSX"

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// pagerCommand picks the pager for a render mode. GRIDSPIKE_PAGER wins over
// PAGER; "cat" or "-" turn paging off. NDJSON streams are never paged.
func pagerCommand(mode present.Mode, getenv func(string) string) string {
	if mode == present.ModeNDJSON {
		return ""
	}
	pager, ok := "", false
	for _, key := range []string{"GRIDSPIKE_PAGER", "PAGER"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			pager, ok = v, true
			break
		}
	}
	switch {
	case !ok:
		return defaultPager
	case pager == "cat" || pager == "-":
		return ""
	}
	return pager
}

// withPager sends a rendered grid through the pager when out is a terminal.
// Pager start-up failures fall back to writing directly.
func withPager(ctx context.Context, mode present.Mode, out, errOut io.Writer, write func(io.Writer) error) error {
	pager := pagerCommand(mode, os.Getenv)
	if pager == "" || !isTerminal(out) {
		return write(out)
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", pager)
	cmd.Stdout = out
	cmd.Stderr = errOut
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return write(out)
	}
	if err := cmd.Start(); err != nil {
		return write(out)
	}
	writeErr := write(stdin)
	_ = stdin.Close()
	if waitErr := cmd.Wait(); writeErr == nil {
		return waitErr
	}
	return writeErr
}
