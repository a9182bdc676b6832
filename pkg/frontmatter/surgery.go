package frontmatter

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNestedField is returned by SetField and RemoveField for keys that are
// not flat top-level scalars.
var ErrNestedField = fmt.Errorf("field surgery supports flat scalar fields only")

// SetField sets or replaces one flat scalar field in the frontmatter block,
// touching only that field's line. Every other line of the file, including
// comments and formatting inside the frontmatter, survives byte for byte.
// Content without a frontmatter block gains a minimal one.
//
// Only top-level scalar fields are supported; setting a nested key returns
// ErrNestedField.
func SetField(content []byte, key string, value any) ([]byte, error) {
	if strings.Contains(key, ".") {
		return nil, ErrNestedField
	}
	line, err := scalarLine(key, value)
	if err != nil {
		return nil, err
	}

	start, end, ok := blockBounds(content)
	if !ok {
		var buf bytes.Buffer
		buf.WriteString("---\n")
		buf.WriteString(line)
		buf.WriteString("\n---\n")
		buf.Write(content)
		return buf.Bytes(), nil
	}

	lines := blockLines(content[start:end])
	replaced := false
	for i, l := range lines {
		if fieldKey(l) == key {
			lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		lines = append(lines, line)
	}

	var buf bytes.Buffer
	buf.Write(content[:start])
	buf.WriteString(strings.Join(lines, "\n"))
	buf.WriteString("\n")
	buf.Write(content[end:])
	return buf.Bytes(), nil
}

// RemoveField deletes one flat scalar field from the frontmatter block.
// Removing a missing field, or calling on content without frontmatter, is
// a no-op.
func RemoveField(content []byte, key string) ([]byte, error) {
	if strings.Contains(key, ".") {
		return nil, ErrNestedField
	}

	start, end, ok := blockBounds(content)
	if !ok {
		return content, nil
	}

	lines := blockLines(content[start:end])
	kept := lines[:0]
	for _, l := range lines {
		if fieldKey(l) == key {
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == len(lines) {
		return content, nil
	}

	var buf bytes.Buffer
	buf.Write(content[:start])
	if len(kept) > 0 {
		buf.WriteString(strings.Join(kept, "\n"))
		buf.WriteString("\n")
	}
	buf.Write(content[end:])
	return buf.Bytes(), nil
}

// blockLines splits the frontmatter body into lines, dropping the trailing
// empty element left by the block's final newline.
func blockLines(block []byte) []string {
	s := strings.TrimSuffix(string(block), "\n")
	s = strings.TrimSuffix(s, "\r")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// blockBounds locates the frontmatter body between the opening and closing
// delimiters. start points just past the opening delimiter's newline, end
// at the byte where the closing "---" line begins.
func blockBounds(content []byte) (start, end int, ok bool) {
	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		return 0, 0, false
	}
	start = bytes.IndexByte(content, '\n') + 1

	rest := content[start:]
	for off := 0; ; {
		idx := bytes.Index(rest[off:], []byte("---"))
		if idx < 0 {
			return 0, 0, false
		}
		pos := off + idx
		// The delimiter must start its own line.
		if pos > 0 && rest[pos-1] != '\n' {
			off = pos + 3
			continue
		}
		lineEnd := pos + 3
		for lineEnd < len(rest) && rest[lineEnd] == '\r' {
			lineEnd++
		}
		if lineEnd < len(rest) && rest[lineEnd] != '\n' {
			off = pos + 3
			continue
		}
		return start, start + pos, true
	}
}

// fieldKey extracts the key of a flat "key: value" line, or "" for lines
// that are not flat fields (indented continuations, comments, lists).
func fieldKey(line string) string {
	if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' || line[0] == '-' {
		return ""
	}
	i := strings.Index(line, ":")
	if i <= 0 {
		return ""
	}
	return strings.TrimSpace(line[:i])
}

// scalarLine renders "key: value" with the value YAML-encoded, so strings
// needing quotes get them.
func scalarLine(key string, value any) (string, error) {
	switch value.(type) {
	case nil, string, bool, int, int64, float64:
	default:
		return "", ErrNestedField
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return key + ": " + strings.TrimRight(string(out), "\n"), nil
}
