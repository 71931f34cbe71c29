// Package rules loads and validates recurring event definitions from YAML
// rule files.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Rule is one recurring event definition. Title and Cron are required;
// everything else is optional metadata carried onto generated events.
type Rule struct {
	Title   string   `yaml:"title"`
	Cron    string   `yaml:"cron"`
	Tags    []string `yaml:"tags"`
	Keyword string   `yaml:"todo_state"`
	Body    string   `yaml:"description"`
}

// File is the top-level shape of a YAML rules file.
type File struct {
	Events []Rule `yaml:"events"`
}

// Load reads a single rules file.
func Load(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}

	return f.Events, nil
}

// LoadGlob loads rules from every file matching pattern. A plain path
// with no glob metacharacters is loaded directly so missing-file errors
// stay precise. Duplicate titles across files are allowed but logged,
// since they usually indicate a copy-paste mistake.
func LoadGlob(pattern string) ([]Rule, error) {
	var paths []string

	if !hasGlobMeta(pattern) {
		paths = []string{pattern}
	} else {
		base, rel := doublestar.SplitPattern(pattern)
		matches, err := doublestar.Glob(os.DirFS(base), rel)
		if err != nil {
			return nil, fmt.Errorf("bad rules pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			paths = append(paths, filepath.Join(base, m))
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("no rules files match %q", pattern)
		}
	}

	var all []Rule
	seen := map[string]string{} // title -> file it first appeared in
	for _, p := range paths {
		rs, err := Load(p)
		if err != nil {
			return nil, err
		}
		for _, r := range rs {
			if prev, dup := seen[r.Title]; dup {
				log.Warn().
					Str("title", r.Title).
					Str("file", p).
					Str("first_seen", prev).
					Msg("duplicate rule title")
			} else {
				seen[r.Title] = p
			}
		}
		all = append(all, rs...)
	}

	return all, nil
}

func hasGlobMeta(s string) bool {
	for _, r := range s {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
