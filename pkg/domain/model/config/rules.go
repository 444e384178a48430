package config

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// RuleTable is the curated category/synonym table used for exact matching
// before any embedding comparison. Keys name a category; the associated
// list holds terms related to that category. All comparison is
// case-insensitive.
type RuleTable struct {
	groups map[string][]string
}

// NewRuleTable builds a table from category → related-terms groups. Keys
// and terms are lowercased on construction.
func NewRuleTable(groups map[string][]string) *RuleTable {
	normalized := make(map[string][]string, len(groups))
	for key, terms := range groups {
		list := make([]string, len(terms))
		for i, t := range terms {
			list[i] = strings.ToLower(t)
		}
		normalized[strings.ToLower(key)] = list
	}
	return &RuleTable{groups: normalized}
}

// Related reports whether a and b belong together: either one is a category
// key whose list contains the other, or both appear in the same list. The
// inputs must already be lowercased.
func (t *RuleTable) Related(a, b string) bool {
	if t == nil {
		return false
	}
	for key, list := range t.groups {
		if a == key && contains(list, b) {
			return true
		}
		if b == key && contains(list, a) {
			return true
		}
		if contains(list, a) && contains(list, b) {
			return true
		}
	}
	return false
}

// Size returns the number of category groups
func (t *RuleTable) Size() int {
	if t == nil {
		return 0
	}
	return len(t.groups)
}

// Validate checks the table for empty keys and empty groups
func (t *RuleTable) Validate() error {
	for key, terms := range t.groups {
		if key == "" {
			return goerr.New("rule category key must not be empty")
		}
		if len(terms) == 0 {
			return goerr.New("rule category has no terms", goerr.V("category", key))
		}
		for _, term := range terms {
			if term == "" {
				return goerr.New("rule term must not be empty", goerr.V("category", key))
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
