package config

import (
	"sort"
	"strings"
)

// UpsertDatasetConfig inserts or replaces the [datasets.<name>] section.
func UpsertDatasetConfig(existing string, src DatasetSource) string {
	values := map[string]any{"file": src.File}
	if src.Schema != "" && src.Schema != src.Name {
		values["schema"] = src.Schema
	}
	out, _ := upsertSection(existing, "datasets."+src.Name, values)
	return out
}

// DeleteDatasetConfig removes the [datasets.<name>] section if present.
func DeleteDatasetConfig(existing, name string) (string, bool) {
	return deleteSection(existing, "datasets."+name)
}

func upsertSection(existing, section string, values map[string]any) (string, bool) {
	header := "[" + section + "]"
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines)+len(values)+2)
	replaced := false

	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != header {
			out = append(out, lines[i])
			continue
		}
		out = append(out, lines[i])
		appendSectionOptions(&out, values)
		replaced = true
		i = sectionEnd(lines, i+1) - 1
	}

	if !replaced {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
		out = append(out, "# Added by gridspike-cli import", header)
		appendSectionOptions(&out, values)
	}
	return strings.Join(out, "\n"), !replaced
}

func deleteSection(existing, section string) (string, bool) {
	header := "[" + section + "]"
	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	removed := false

	for i := 0; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != header {
			out = append(out, lines[i])
			continue
		}
		removed = true
		i = sectionEnd(lines, i+1) - 1
	}
	return strings.Join(out, "\n"), removed
}

// sectionEnd returns the index of the next section header at or after i,
// or len(lines).
func sectionEnd(lines []string, i int) int {
	for ; i < len(lines); i++ {
		if isSectionHeader(strings.TrimSpace(lines[i])) {
			return i
		}
	}
	return len(lines)
}

func appendSectionOptions(out *[]string, values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	// file first, then the rest alphabetically
	sort.Slice(keys, func(i, j int) bool {
		if (keys[i] == "file") != (keys[j] == "file") {
			return keys[i] == "file"
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		*out = append(*out, optionLines(k, values[k], "")...)
	}
}

func isSectionHeader(trim string) bool {
	if trim == "" || strings.HasPrefix(trim, "#") || strings.HasPrefix(trim, ";") {
		return false
	}
	return strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]")
}
