package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMissingFrontmatter is returned when a file does not begin with a
// frontmatter open delimiter.
var ErrMissingFrontmatter = errors.New("missing frontmatter")

// ErrUnterminatedFrontmatter is returned when the open delimiter is present
// but no closing delimiter line follows.
var ErrUnterminatedFrontmatter = errors.New("missing closing frontmatter delimiter")

// Extract splits content into the raw frontmatter block and the body.
// The open delimiter must be the first line of the file and both delimiters
// must be lines containing only "---". The returned matter excludes the
// delimiter lines; the returned body starts on the line after the closing
// delimiter. Both LF and CRLF line endings are handled.
func Extract(content []byte) (matter, body []byte, err error) {
	first, rest, hasMore := cutLine(content)
	if !bytes.Equal(trimCR(first), []byte("---")) {
		return nil, nil, ErrMissingFrontmatter
	}
	if !hasMore {
		return nil, nil, ErrUnterminatedFrontmatter
	}

	off := 0
	for {
		line, remain, more := cutLine(rest[off:])
		if bytes.Equal(trimCR(line), []byte("---")) {
			return rest[:off], remain, nil
		}
		if !more {
			return nil, nil, ErrUnterminatedFrontmatter
		}
		off = len(rest) - len(remain)
	}
}

// cutLine splits content at the first newline. The line excludes the
// newline itself; more reports whether a newline was found.
func cutLine(content []byte) (line, rest []byte, more bool) {
	i := bytes.IndexByte(content, '\n')
	if i < 0 {
		return content, nil, false
	}
	return content[:i], content[i+1:], true
}

func trimCR(line []byte) []byte {
	return bytes.TrimSuffix(line, []byte("\r"))
}

// Parse extracts YAML frontmatter and body content from a reader.
// If no frontmatter is present, returns empty struct and full content as body.
// This is useful for files where frontmatter is optional.
func Parse[T any](r io.Reader, matter *T) (body []byte, err error) {
	return parse(r, matter, false)
}

// MustParse is like Parse but returns an error if no frontmatter is found.
// This is useful for files where frontmatter is required (SKILL.md, rules).
func MustParse[T any](r io.Reader, matter *T) (body []byte, err error) {
	return parse(r, matter, true)
}

func parse[T any](r io.Reader, matter *T, required bool) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	fm, body, err := Extract(content)
	if err != nil {
		if required {
			return nil, err
		}
		return content, nil
	}

	if err := yaml.Unmarshal(fm, matter); err != nil {
		return nil, err
	}
	return body, nil
}

// Decode unmarshals a frontmatter block into out, ignoring unknown fields.
func Decode(matter []byte, out any) error {
	return yaml.Unmarshal(matter, out)
}

// DecodeStrict unmarshals a frontmatter block into out, rejecting any field
// not present in the destination type.
func DecodeStrict(matter []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(matter))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Keys returns the top-level mapping keys of a frontmatter block in document
// order. A block that is empty or contains only comments yields no keys.
// Returns an error if the block is not valid YAML or is not a mapping.
func Keys(matter []byte) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(matter, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter must be a YAML mapping, got %s", nodeKind(root.Kind))
	}

	keys := make([]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	return keys, nil
}

func nodeKind(k yaml.Kind) string {
	switch k {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}

// ParseHeader parses only the frontmatter from the reader.
// It stops reading after the closing delimiter "---".
// The body is not consumed or returned.
// Returns nil if no frontmatter is found (silent success, matter remains empty).
func ParseHeader(r io.Reader, matter any) error {
	scanner := bufio.NewScanner(r)

	// Check first line
	if !scanner.Scan() {
		return scanner.Err()
	}
	line := strings.TrimSpace(scanner.Text())
	if line != "---" {
		// No frontmatter start delimiter
		return nil
	}

	var buf bytes.Buffer
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			// Found closing delimiter
			return yaml.Unmarshal(buf.Bytes(), matter)
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return scanner.Err()
}

// Format formats content with YAML frontmatter.
// The matter struct is serialized to YAML and wrapped in "---" delimiters,
// followed by the body content.
func Format(matter any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
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
