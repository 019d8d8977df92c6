package svn

import (
	"encoding/xml"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/harrison/svnsweep/internal/models"
)

// statusDoc mirrors the `svn status --xml` document shape. Entries can
// appear directly under a target or grouped into changelists.
type statusDoc struct {
	XMLName xml.Name       `xml:"status"`
	Targets []statusTarget `xml:"target"`
}

type statusTarget struct {
	Path        string             `xml:"path,attr"`
	Entries     []statusEntry      `xml:"entry"`
	Changelists []statusChangelist `xml:"changelist"`
}

type statusChangelist struct {
	Name    string        `xml:"name,attr"`
	Entries []statusEntry `xml:"entry"`
}

type statusEntry struct {
	Path     string   `xml:"path,attr"`
	WCStatus wcStatus `xml:"wc-status"`
}

type wcStatus struct {
	Item           string `xml:"item,attr"`
	TreeConflicted string `xml:"tree-conflicted,attr"`
}

// conflicted reports whether the entry represents a content or tree
// conflict.
func (e statusEntry) conflicted() bool {
	if strings.EqualFold(e.WCStatus.Item, "conflicted") {
		return true
	}
	return strings.EqualFold(e.WCStatus.TreeConflicted, "true")
}

// ParseStatusXML parses `svn status --xml` output and returns a record for
// every entry whose status is "conflicted" or whose tree-conflict flag is
// set. Paths are resolved against root and canonicalized to absolute form.
// Malformed input yields a *ParseError.
func ParseStatusXML(data []byte, root string) ([]models.ConflictRecord, error) {
	var doc statusDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	var records []models.ConflictRecord
	collect := func(entries []statusEntry) {
		for _, e := range entries {
			if e.Path == "" || !e.conflicted() {
				continue
			}
			records = append(records, models.ConflictRecord{
				Root: root,
				Path: resolveAgainst(root, e.Path),
			})
		}
	}
	for _, target := range doc.Targets {
		collect(target.Entries)
		for _, cl := range target.Changelists {
			collect(cl.Entries)
		}
	}
	return records, nil
}

var (
	// Conflicted lines in plain `svn status` output carry 'C' in the first
	// of the seven fixed status columns, then whitespace, then the path.
	textConflictLine = regexp.MustCompile(`^C.{6}\s+(.*)$`)

	// Looser shape for clients that collapse the status columns.
	textTokenLine = regexp.MustCompile(`^(\S+)\s+(.*)$`)
)

// ParseStatusText parses plain `svn status` output as a best-effort
// fallback. Lines that do not look like a conflicted entry are ignored; the
// textual form is inherently lossy and never produces an error.
func ParseStatusText(out string, root string) []models.ConflictRecord {
	var records []models.ConflictRecord
	for _, line := range strings.Split(out, "\n") {
		if line == "" {
			continue
		}

		var rel string
		if m := textConflictLine.FindStringSubmatch(line); m != nil {
			rel = strings.TrimSpace(m[1])
		} else if m := textTokenLine.FindStringSubmatch(line); m != nil && m[1] == "C" {
			rel = strings.TrimSpace(m[2])
		} else {
			continue
		}

		if rel != "" {
			records = append(records, models.ConflictRecord{
				Root: root,
				Path: resolveAgainst(root, rel),
			})
		}
	}
	return records
}

// resolveAgainst canonicalizes rel to an absolute path under root. Paths
// svn already reports as absolute are cleaned and kept.
func resolveAgainst(root, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Clean(filepath.Join(root, rel))
}
