package actionscan

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists the action names the page's feature modules register.
//
//	actions:
//	  - delete-match
//	  - filter-season
type Manifest struct {
	Actions []string `yaml:"actions"`
}

// LoadManifest reads a YAML manifest and validates it against the embedded
// schema: a list of unique, non-blank action names.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	if err := ValidateManifest(data); err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// Has reports whether action is listed.
func (m Manifest) Has(action string) bool {
	for _, a := range m.Actions {
		if strings.TrimSpace(a) == action {
			return true
		}
	}
	return false
}

// Unregistered returns the static occurrences whose action is not listed.
// Blank attribute values are always reported.
func Unregistered(occ []Occurrence, m Manifest) []Occurrence {
	var out []Occurrence
	for _, o := range occ {
		if o.Dynamic {
			continue
		}
		if o.Action == "" || !m.Has(o.Action) {
			out = append(out, o)
		}
	}
	return out
}

// Actions returns the distinct static action names found, sorted.
func Actions(occ []Occurrence) []string {
	seen := make(map[string]struct{})
	for _, o := range occ {
		if o.Dynamic || o.Action == "" {
			continue
		}
		seen[o.Action] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// MarshalManifest renders the distinct actions of occ as a YAML manifest, a
// starting point for a page's registration list.
func MarshalManifest(occ []Occurrence) ([]byte, error) {
	return yaml.Marshal(Manifest{Actions: Actions(occ)})
}
