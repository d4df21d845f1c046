// Package skill defines the skill package model and folder discovery.
//
// A skill is a folder containing a SKILL.md with YAML frontmatter, optional
// references/*.md documents linked from the body, and optional rules/*.md
// files carrying their own frontmatter.
package skill

import "path"

// FileName is the required entry document of a skill folder.
const FileName = "SKILL.md"

// Conventional subdirectories of a skill folder.
const (
	// ReferencesDir holds supplementary documents linked from SKILL.md.
	ReferencesDir = "references"
	// RulesDir holds individual enforcement rules with frontmatter.
	RulesDir = "rules"
)

// Special files under rules/ that carry no rule frontmatter.
const (
	// SectionsFile is the optional ordering manifest. Informational only;
	// no ordering semantics are enforced.
	SectionsFile = "_sections.md"
	// TemplateFile is the optional authoring template, ignored by checks.
	TemplateFile = "_template.md"
)

// Metadata is the closed frontmatter shape of a SKILL.md.
// Only name and description are recognized; other keys are rejected.
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// RuleMeta is the closed frontmatter shape of a rule file.
type RuleMeta struct {
	Title  string   `yaml:"title" json:"title"`
	Impact string   `yaml:"impact" json:"impact"`
	Tags   []string `yaml:"tags" json:"tags,omitempty"`
}

// Impact levels a rule may declare.
var Impacts = []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}

// ValidImpact reports whether impact is one of the defined levels.
func ValidImpact(impact string) bool {
	for _, level := range Impacts {
		if impact == level {
			return true
		}
	}
	return false
}

// ReferenceFile describes one Markdown document under references/.
type ReferenceFile struct {
	// Path is the file path relative to the scan root.
	Path string `json:"path"`
	// Name is the base file name, as used in link targets and orphan reports.
	Name string `json:"name"`
	// LineCount is the number of lines in the file.
	LineCount int `json:"lineCount"`
	// HasTOC reports whether the file contains a table-of-contents heading.
	HasTOC bool `json:"hasToc"`
}

// Rule describes one parsed rule file under rules/.
type Rule struct {
	// Path is the file path relative to the scan root.
	Path string `json:"path"`
	// Name is the base file name.
	Name string `json:"name"`
	// Meta holds the parsed frontmatter. Zero when Err is set.
	Meta RuleMeta `json:"meta"`
	// Unknown lists frontmatter keys outside the closed shape.
	Unknown []string `json:"unknown,omitempty"`
	// Err records a parse failure for this rule file, if any.
	Err error `json:"-"`
}

// ReferenceLink is a resolved Markdown link from the SKILL.md body to a
// file under references/ or rules/.
type ReferenceLink struct {
	// SourceFile is the linking file relative to the scan root.
	SourceFile string `json:"sourceFile"`
	// TargetPath is the link destination relative to the skill folder.
	TargetPath string `json:"targetPath"`
	// Exists reports whether the target resolves to a regular file inside
	// the skill folder.
	Exists bool `json:"exists"`
	// Escapes reports whether the cleaned target climbs out of the skill
	// folder. Escaping links never resolve.
	Escapes bool `json:"escapes,omitempty"`
}

// Package represents one fully loaded skill folder.
// Packages are built once per scan and never mutated afterwards.
type Package struct {
	// Name is the frontmatter name. Empty when parsing failed.
	Name string `json:"name"`
	// Folder is the basename of the skill folder.
	Folder string `json:"folder"`
	// Dir is the folder path relative to the scan root.
	Dir string `json:"dir"`
	// SkillFile is the SKILL.md path relative to the scan root.
	SkillFile string `json:"skillFile"`
	// Meta holds the parsed frontmatter.
	Meta Metadata `json:"meta"`
	// Body is the Markdown content below the frontmatter.
	Body string `json:"-"`
	// BodyLineCount is the number of lines in Body.
	BodyLineCount int `json:"bodyLineCount"`
	// BodyHeadings lists the heading texts of Body in document order.
	BodyHeadings []string `json:"-"`
	// BodyLinks lists the raw link destinations of Body in document order.
	BodyLinks []string `json:"-"`
	// Unknown lists frontmatter keys outside the closed shape.
	Unknown []string `json:"unknown,omitempty"`
	// References lists the Markdown files under references/, sorted by name.
	References []ReferenceFile `json:"references,omitempty"`
	// Rules lists the parsed rule files under rules/, sorted by name.
	// The _sections.md and _template.md manifests are excluded.
	Rules []Rule `json:"rules,omitempty"`
	// RuleFiles lists the base names of every Markdown file under rules/,
	// sorted. Unlike Rules it includes the underscore manifests, so link
	// resolution can treat them as real targets.
	RuleFiles []string `json:"ruleFiles,omitempty"`
	// Links lists the resolved body links, sorted by target.
	Links []ReferenceLink `json:"links,omitempty"`
}

// Reference returns the reference file with the given base name, or nil.
func (p *Package) Reference(name string) *ReferenceFile {
	for i := range p.References {
		if p.References[i].Name == name {
			return &p.References[i]
		}
	}
	return nil
}

// RelPath joins elem onto the package folder, keeping the result relative
// to the scan root. Used when attributing findings to files.
func (p *Package) RelPath(elem ...string) string {
	return path.Join(append([]string{p.Dir}, elem...)...)
}
