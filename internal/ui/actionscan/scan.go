// Package actionscan inventories the action names server-rendered templates
// declare in data-action / data-on-* attributes.
package actionscan

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// DefaultExtensions are the template suffixes scanned when none are given.
var DefaultExtensions = []string{".html", ".htm", ".tmpl", ".jinja", ".j2"}

// Occurrence aggregates one action name declared in one file.
type Occurrence struct {
	File      string        `json:"file"`
	Attribute string        `json:"attribute"`
	Event     dom.EventType `json:"event"`
	Action    string        `json:"action"`
	Count     int           `json:"count"`
	// Dynamic marks values produced by template expressions, which cannot
	// be checked against a manifest.
	Dynamic bool `json:"dynamic,omitempty"`
}

// ScanReader parses one document and returns its occurrences sorted by
// event then action.
func ScanReader(name string, r io.Reader) ([]Occurrence, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	type key struct {
		event  dom.EventType
		action string
	}
	counts := make(map[key]*Occurrence)
	for _, et := range dom.EventTypes {
		attr, _ := et.Attribute()
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			value, _ := sel.Attr(attr)
			value = strings.TrimSpace(value)
			k := key{event: et, action: value}
			if occ, ok := counts[k]; ok {
				occ.Count++
				return
			}
			counts[k] = &Occurrence{
				File:      name,
				Attribute: attr,
				Event:     et,
				Action:    value,
				Count:     1,
				Dynamic:   isDynamic(value),
			}
		})
	}
	out := make([]Occurrence, 0, len(counts))
	for _, occ := range counts {
		out = append(out, *occ)
	}
	sortOccurrences(out)
	return out, nil
}

// ScanFile scans a single file.
func ScanFile(path string) ([]Occurrence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ScanReader(path, f)
}

// ScanPaths scans files and walks directories, keeping files whose suffix is
// in exts (DefaultExtensions when empty).
func ScanPaths(paths []string, exts []string) ([]Occurrence, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var out []Occurrence
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			occ, err := ScanFile(root)
			if err != nil {
				return nil, err
			}
			out = append(out, occ...)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !hasExtension(path, exts) {
				return nil
			}
			occ, err := ScanFile(path)
			if err != nil {
				return err
			}
			out = append(out, occ...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sortOccurrences(out)
	return out, nil
}

func hasExtension(path string, exts []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

func isDynamic(value string) bool {
	return strings.Contains(value, "{{") || strings.Contains(value, "{%")
}

func sortOccurrences(out []Occurrence) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Event != b.Event {
			return a.Event < b.Event
		}
		return a.Action < b.Action
	})
}
