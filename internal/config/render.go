package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// section groups options under one TOML table; the top level has name "".
type section struct {
	name string
	opts []ConfigOption
}

// bySection splits dotted keys into their table and keeps first-seen order.
func bySection(opts []ConfigOption) []section {
	out := []section{{name: ""}}
	index := map[string]int{"": 0}
	for _, o := range opts {
		name, key := "", o.Key
		if table, rest, ok := strings.Cut(o.Key, "."); ok {
			name, key = table, rest
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, section{name: name})
		}
		out[i].opts = append(out[i].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# gridspike configuration (TOML)"}
	for _, s := range bySection(GetConfigOptions()) {
		if len(s.opts) == 0 {
			continue
		}
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = append(lines, optionLines(o.Key, o.Default, o.Comment)...)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// UpdateTOML merges defaults into an existing TOML string and comments out
// keys the schema no longer knows. Values already present are left alone.
func UpdateTOML(existing string) (string, bool) {
	opts := GetConfigOptions()
	known := make(map[string]bool, len(opts))
	var tables []string
	for _, o := range opts {
		known[o.Key] = true
		if _, ok := o.Default.(map[string]any); ok {
			tables = append(tables, o.Key)
		}
	}

	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	present := map[string]bool{}
	changed := false
	table := ""
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if isSectionHeader(trim) {
			table = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			continue
		}
		key, ok := parseTOMLKey(line)
		if !ok {
			out = append(out, line)
			continue
		}
		full := key
		if table != "" {
			full = table + "." + key
		}
		present[full] = true
		if known[full] || underTable(full, tables) {
			out = append(out, line)
			continue
		}
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		out = append(out,
			indent+"# OUTDATED: option removed from config schema",
			indent+"# "+strings.TrimLeft(line, " \t"))
		changed = true
	}

	var missing []ConfigOption
	for _, o := range opts {
		if _, isTable := o.Default.(map[string]any); isTable || present[o.Key] {
			continue
		}
		missing = append(missing, o)
	}
	if len(missing) > 0 {
		out = insertMissing(out, bySection(missing))
		changed = true
	}
	return strings.Join(out, "\n"), changed
}

func underTable(key string, tables []string) bool {
	for _, t := range tables {
		if key == t || strings.HasPrefix(key, t+".") {
			return true
		}
	}
	return false
}

// insertMissing puts top-level options before the first table header and
// table options at the end of their existing table, so the result stays
// valid TOML. Tables that do not exist yet are appended.
func insertMissing(lines []string, sections []section) []string {
	for _, s := range sections {
		if len(s.opts) == 0 {
			continue
		}
		var block []string
		for _, o := range s.opts {
			block = append(block, optionLines(o.Key, o.Default, o.Comment)...)
		}
		if s.name == "" {
			at := sectionEnd(lines, 0)
			block = append([]string{"# Added by config update"}, block...)
			lines = append(lines[:at:at], append(block, lines[at:]...)...)
			continue
		}
		header := "[" + s.name + "]"
		at := -1
		for i, l := range lines {
			if strings.TrimSpace(l) == header {
				at = sectionEnd(lines, i+1)
				break
			}
		}
		if at < 0 {
			lines = append(lines, "", "# Added by config update", header)
			lines = append(lines, block...)
			continue
		}
		lines = append(lines[:at:at], append(block, lines[at:]...)...)
	}
	return lines
}

func parseTOMLKey(line string) (string, bool) {
	raw, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key := strings.TrimSpace(raw)
	if key == "" || strings.ContainsAny(key[:1], "[\"'#;") {
		return "", false
	}
	return key, true
}

// optionLines renders one key with its comment, followed by a blank line.
// An empty table default becomes a commented [key.<name>] hint, since an
// inline {} could not be extended by tables later.
func optionLines(key string, value any, comment string) []string {
	var lines []string
	if comment != "" {
		lines = append(lines, "# "+comment)
	}
	if m, ok := value.(map[string]any); ok && len(m) == 0 {
		return append(lines, fmt.Sprintf("# [%s.<name>]", key), "")
	}
	return append(lines, key+" = "+tomlValue(value), "")
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []int:
		parts := make([]string, len(v))
		for i, n := range v {
			parts[i] = strconv.Itoa(n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + " = " + strconv.Quote(fmt.Sprint(v[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
