package frontmatter

import (
	"bytes"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseHeader decodes the frontmatter block into matter. Content without a
// block, or with an unterminated one, leaves matter untouched and returns
// nil, so files where frontmatter is optional parse cleanly either way.
func ParseHeader(r io.Reader, matter any) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	start, end, ok := blockBounds(content)
	if !ok {
		return nil
	}
	return yaml.Unmarshal(content[start:end], matter)
}

// Format renders matter as a frontmatter block followed by body. The body
// is separated from the block by a blank line and the document always ends
// with a newline.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
