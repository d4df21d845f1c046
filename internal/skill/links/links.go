// Package links extracts Markdown structure from skill documents and
// resolves body links against the files shipped in a skill folder.
package links

import (
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/thoreinstein/skillcheck/internal/skill"
)

// Document holds the Markdown structure extracted from a skill body.
type Document struct {
	// Links are raw link destinations in document order, duplicates kept.
	Links []string
	// Headings are heading texts in document order.
	Headings []string
}

// Parse extracts links and headings from Markdown source in a single AST
// pass. Link reference definitions are resolved by the parser, so indirect
// links contribute their final destination.
func Parse(src []byte) *Document {
	doc := &Document{}
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			doc.Links = append(doc.Links, string(v.Destination))
		case *ast.Heading:
			doc.Headings = append(doc.Headings, flattenText(v, src))
		}
		return ast.WalkContinue, nil
	})
	return doc
}

// flattenText collects the plain text of a node's inline children,
// dropping emphasis and code markers.
func flattenText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(src))
		case *ast.String:
			sb.Write(v.Value)
		default:
			sb.WriteString(flattenText(c, src))
		}
	}
	return sb.String()
}

// Spellings accepted as a table-of-contents heading.
var tocHeadings = map[string]bool{
	"table of contents": true,
	"contents":          true,
	"toc":               true,
}

// HasTOC reports whether any heading reads as a table of contents.
func HasTOC(headings []string) bool {
	for _, h := range headings {
		if tocHeadings[strings.ToLower(strings.TrimSpace(h))] {
			return true
		}
	}
	return false
}

// Resolve matches body link destinations against the reference and rule
// files found in the skill folder. Only destinations targeting
// references/*.md or rules/*.md participate; external URLs, anchors,
// absolute paths, and other relative links are ignored.
//
// The returned links are deduped by target and sorted for stable
// reporting. Orphans lists the reference files never linked from the
// body, in the order they appear in pkg.References.
func Resolve(pkg *skill.Package) (resolved []skill.ReferenceLink, orphans []string) {
	exists := make(map[string]bool, len(pkg.References)+len(pkg.RuleFiles))
	for _, ref := range pkg.References {
		exists[skill.ReferencesDir+"/"+ref.Name] = true
	}
	for _, name := range pkg.RuleFiles {
		exists[skill.RulesDir+"/"+name] = true
	}

	seen := make(map[string]bool)
	linked := make(map[string]bool)
	for _, dest := range pkg.BodyLinks {
		target, ok := normalize(dest)
		if !ok || seen[target] {
			continue
		}
		seen[target] = true

		link := skill.ReferenceLink{
			SourceFile: pkg.SkillFile,
			TargetPath: target,
		}
		if target == ".." || strings.HasPrefix(target, "../") {
			link.Escapes = true
		} else {
			link.Exists = exists[target]
		}
		if link.Exists {
			if name, found := strings.CutPrefix(target, skill.ReferencesDir+"/"); found {
				linked[name] = true
			}
		}
		resolved = append(resolved, link)
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].TargetPath < resolved[j].TargetPath
	})

	for _, ref := range pkg.References {
		if !linked[ref.Name] {
			orphans = append(orphans, ref.Name)
		}
	}
	return resolved, orphans
}

// normalize reduces a raw destination to a cleaned slash path relative to
// the skill folder. ok is false for links outside the resolver's scope.
// Escapes survive cleaning so Resolve can flag targets that climb out of
// the folder.
func normalize(dest string) (target string, ok bool) {
	dest, _, _ = strings.Cut(dest, "#")
	if dest == "" || strings.HasPrefix(dest, "/") ||
		strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return "", false
	}
	dest = strings.TrimPrefix(dest, "./")
	if !strings.HasSuffix(dest, ".md") {
		return "", false
	}
	if !strings.HasPrefix(dest, skill.ReferencesDir+"/") && !strings.HasPrefix(dest, skill.RulesDir+"/") {
		return "", false
	}
	return path.Clean(dest), true
}
