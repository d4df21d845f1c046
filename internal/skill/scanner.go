package skill

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/thoreinstein/skillcheck/internal/errors"
)

// Candidate is a folder found directly under the scan root. A candidate
// without a SKILL.md is still reported so the audit can flag it.
type Candidate struct {
	// Name is the folder basename.
	Name string
	// Dir is the folder path relative to the scan root, in slash form.
	Dir string
	// HasSkill reports whether a SKILL.md exists directly inside the folder.
	HasSkill bool
}

// Scan enumerates the immediate subdirectories of root in name order.
// Hidden directories (dot-prefixed) and non-directory entries are skipped.
// Returns ErrInvalidRoot when root does not exist or is not a directory;
// any other filesystem failure aborts the scan.
func Scan(root string) ([]Candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(errors.ErrInvalidRoot, "%s does not exist", root)
		}
		return nil, errors.Wrapf(err, "stating root %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrInvalidRoot, "%s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading root %s", root)
	}

	var candidates []Candidate
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name()[0] == '.' {
			continue
		}

		c := Candidate{Name: entry.Name(), Dir: entry.Name()}

		skillInfo, err := os.Stat(filepath.Join(root, entry.Name(), FileName))
		switch {
		case err == nil:
			c.HasSkill = skillInfo.Mode().IsRegular()
		case errors.Is(err, fs.ErrNotExist):
			// reported as a missing-skill-file finding by the audit
		default:
			return nil, errors.Wrapf(err, "stating %s/%s", entry.Name(), FileName)
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}
