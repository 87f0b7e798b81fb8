package dokuwiki

import "strings"

// Dataentry helpers for the data plugin's block syntax:
//
//	---- dataentry NAME ----
//	key:value # comment
//	----
//
// The block is plain wikitext, so these are local string transformations
// with no remote calls.

// DataentryField is one key/value line of a dataentry block, in source
// order.
type DataentryField struct {
	Key   string
	Value string
}

// ParseDataentry extracts the dataentry block from content as a map. When
// a key repeats, the first occurrence wins. Returns ErrNoDataentry when
// content has no block.
func ParseDataentry(content string) (map[string]string, error) {
	_, fields, err := ParseDataentryFields(content)
	if err != nil {
		return nil, err
	}

	entry := make(map[string]string, len(fields))
	for _, f := range fields {
		if _, ok := entry[f.Key]; !ok {
			entry[f.Key] = f.Value
		}
	}
	return entry, nil
}

// ParseDataentryFields extracts the dataentry block from content,
// preserving source order, and returns the entry name alongside the
// fields. Trailing # comments are stripped from values.
func ParseDataentryFields(content string) (string, []DataentryField, error) {
	var (
		name   string
		fields []DataentryField
		found  bool
	)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !found {
			if strings.HasPrefix(trimmed, "---- dataentry") {
				found = true
				name = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(trimmed, "---- dataentry"), "----"))
			}
			continue
		}
		if line == "----" {
			break
		}
		if trimmed == "" {
			continue
		}

		key, rest, _ := strings.Cut(line, ":")
		value := rest
		if i := strings.Index(value, "#"); i >= 0 {
			value = value[:i]
		}
		fields = append(fields, DataentryField{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}

	if !found {
		return "", nil, ErrNoDataentry
	}
	return name, fields, nil
}

// FormatDataentry renders a dataentry block for name with the given
// fields.
func FormatDataentry(name string, fields []DataentryField) string {
	var b strings.Builder
	b.WriteString("---- dataentry ")
	b.WriteString(name)
	b.WriteString(" ----\n")
	for _, f := range fields {
		b.WriteString(f.Key)
		b.WriteString(":")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}
	b.WriteString("----")
	return b.String()
}

// StripDataentry removes the dataentry block from content, keeping the
// text on both sides. Note for python-dokuwiki users: its
// Dataentry.ignore also discards everything above the block, while this
// helper preserves it. Content without a block, or whose block has no
// terminator, is returned unchanged.
func StripDataentry(content string) string {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "---- dataentry") {
			start = i
			break
		}
	}
	if start < 0 {
		return content
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if lines[i] == "----" {
			end = i
			break
		}
	}
	if end < 0 {
		return content
	}

	kept := append(lines[:start], lines[end+1:]...)
	return strings.Join(kept, "\n")
}
