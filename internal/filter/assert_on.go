//go:build gridassert

package filter

func misconfigured(msg string) { panic("filter: " + msg) }
