// Package frontmatter provides generic parsing of YAML frontmatter from
// Markdown files used by the skillcheck CLI for skills and rules.
//
// Frontmatter is delimited by lines containing only "---" at the start and end.
// The content between delimiters is parsed as YAML and unmarshaled into the
// type parameter T. The remaining content after the closing delimiter is
// returned as the body.
//
// # Basic Usage
//
//	type SkillMeta struct {
//		Name        string `yaml:"name"`
//		Description string `yaml:"description"`
//	}
//
//	var meta SkillMeta
//	body, err := frontmatter.MustParse(f, &meta)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Skill: %s\nInstructions:\n%s", meta.Name, body)
//
// # Error Handling
//
// The package defines sentinel errors for common failure conditions:
//
//   - [ErrMissingFrontmatter]: file doesn't start with a "---" delimiter
//   - [ErrUnterminatedFrontmatter]: the opening delimiter is never closed
//
// These can be checked using [errors.Is]:
//
//	body, err := frontmatter.MustParse(r, &meta)
//	if errors.Is(err, frontmatter.ErrMissingFrontmatter) {
//		// handle missing frontmatter
//	}
//
// # Strict Decoding
//
// Validation callers that need to reject unknown keys use [Extract] to obtain
// the raw block, [Keys] to inspect the declared fields, and [DecodeStrict] to
// unmarshal with yaml.v3 strict field checking.
//
// # Supported Formats
//
// The parser supports YAML frontmatter with the standard "---" delimiters.
// Both Unix (LF) and Windows (CRLF) line endings are handled correctly.
package frontmatter
