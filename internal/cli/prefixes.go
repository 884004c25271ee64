package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/quarry/ast"
)

// PrefixTable maps namespace prefixes to base IRIs. Node references of
// the form "prefix:local" are checked against it.
type PrefixTable map[string]string

// LoadPrefixTable reads a YAML prefix table:
//
//	prefixes:
//	  rdf: "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
//	  ex: "http://example.org/"
func LoadPrefixTable(path string) (PrefixTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prefix table: %w", err)
	}

	var doc struct {
		Prefixes map[string]string `yaml:"prefixes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing prefix table: %w", err)
	}
	if len(doc.Prefixes) == 0 {
		return nil, fmt.Errorf("prefix table %s has no prefixes", path)
	}
	return PrefixTable(doc.Prefixes), nil
}

// CheckPrefixes walks every node reference in the query and returns the
// distinct references whose prefix is not in the table. References with
// a leading "@" (keywords like @schema) are exempt, as are full IRIs.
func (t PrefixTable) CheckPrefixes(q ast.Query) []string {
	seen := map[string]bool{}
	var unknown []string
	ast.WalkValues(q, func(v ast.Value) {
		s, ok := v.(ast.Str)
		if !ok || !s.IsNode() || seen[s.Text] {
			return
		}
		seen[s.Text] = true
		if strings.HasPrefix(s.Text, "@") {
			return
		}
		prefix, _, ok := strings.Cut(s.Text, ":")
		if !ok {
			return
		}
		// "http://..." style full IRIs carry their own scheme.
		if strings.HasPrefix(s.Text, prefix+"://") {
			return
		}
		if _, known := t[prefix]; !known {
			unknown = append(unknown, s.Text)
		}
	})
	sort.Strings(unknown)
	return unknown
}
