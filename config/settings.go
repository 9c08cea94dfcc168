// Package config provides configuration structures for the catalog search engine.
// It defines search settings, server and logging options, and loads them from
// YAML or TOML files with environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-catalog-search/internal/typoutil"
	"github.com/gcbaptista/go-catalog-search/model"
)

// SearchSettings contains the options that shape indexing and query evaluation.
//
// StructuredFields are matched by prefix against the textual form of their
// value. TextField is tokenized, folded and matched with bounded edit distance.
// Fuzziness follows the AUTO policy: terms of at most MaxLengthForExact runes
// must match exactly, terms of at most MaxLengthForOneEdit runes allow one
// edit, longer terms allow two.
type SearchSettings struct {
	StructuredFields    []string `json:"structured_fields" yaml:"structuredFields" toml:"structured_fields"`
	TextField           string   `json:"text_field" yaml:"textField" toml:"text_field"`
	DefaultLimit        int      `json:"default_limit" yaml:"defaultLimit" toml:"default_limit"`                      // Top-K when the query does not override it
	MaxLimit            int      `json:"max_limit" yaml:"maxLimit" toml:"max_limit"`                                  // Upper bound for per-query overrides
	PrefixScore         float64  `json:"prefix_score" yaml:"prefixScore" toml:"prefix_score"`                         // Partial score per structured field that matches by prefix
	MaxLengthForExact   int      `json:"max_length_for_exact" yaml:"maxLengthForExact" toml:"max_length_for_exact"`  // e.g. 2
	MaxLengthForOneEdit int      `json:"max_length_for_one_edit" yaml:"maxLengthForOneEdit" toml:"max_length_for_one_edit"` // e.g. 5
	FuzzyScanBatch      int      `json:"fuzzy_scan_batch" yaml:"fuzzyScanBatch" toml:"fuzzy_scan_batch"`              // Terms scanned between cancellation checks
}

// DefaultSearchSettings returns settings for the item catalog with every default applied.
func DefaultSearchSettings() SearchSettings {
	s := SearchSettings{}
	s.ApplyDefaults()
	return s
}

// ApplyDefaults applies default values to the search settings
func (s *SearchSettings) ApplyDefaults() {
	if len(s.StructuredFields) == 0 {
		s.StructuredFields = []string{"idArticle", "colorId", "model", "quality", "price"}
	}
	if s.TextField == "" {
		s.TextField = "description"
	}
	if s.DefaultLimit <= 0 {
		s.DefaultLimit = 10
	}
	if s.MaxLimit <= 0 {
		s.MaxLimit = 100
	}
	if s.MaxLimit < s.DefaultLimit {
		s.MaxLimit = s.DefaultLimit
	}
	if s.PrefixScore <= 0 {
		s.PrefixScore = 1.0
	}
	if s.MaxLengthForExact <= 0 {
		s.MaxLengthForExact = typoutil.DefaultMaxLengthForExact
	}
	if s.MaxLengthForOneEdit <= 0 {
		s.MaxLengthForOneEdit = typoutil.DefaultMaxLengthForOneEdit
	}

	// Ensure the one-edit threshold never sits below the exact threshold
	if s.MaxLengthForOneEdit < s.MaxLengthForExact {
		s.MaxLengthForOneEdit = s.MaxLengthForExact
	}
	if s.FuzzyScanBatch <= 0 {
		s.FuzzyScanBatch = 256
	}
}

// Validate reports every problem found in the settings. An empty slice means valid.
func (s *SearchSettings) Validate() []string {
	var problems []string

	problems = append(problems, checkDuplicates("structured_fields", s.StructuredFields)...)

	for _, field := range s.StructuredFields {
		if strings.TrimSpace(field) == "" {
			problems = append(problems, "Field name cannot be empty or whitespace-only")
		}
		if field == s.TextField {
			problems = append(problems, fmt.Sprintf("Field '%s' cannot be both structured and the text field", field))
		} else if strings.TrimSpace(field) != "" && !model.IsStructuredField(field) {
			problems = append(problems, fmt.Sprintf("Unknown structured field '%s' (want one of %s)", field, strings.Join(model.StructuredFields, ", ")))
		}
	}
	if strings.TrimSpace(s.TextField) == "" {
		problems = append(problems, "text_field cannot be empty")
	} else if !model.IsTextField(s.TextField) {
		problems = append(problems, fmt.Sprintf("text_field '%s' is not a text field of the item", s.TextField))
	}
	if s.DefaultLimit <= 0 {
		problems = append(problems, "default_limit must be positive")
	}
	if s.MaxLimit < s.DefaultLimit {
		problems = append(problems, "max_limit cannot be lower than default_limit")
	}
	if s.MaxLengthForOneEdit < s.MaxLengthForExact {
		problems = append(problems, "max_length_for_one_edit cannot be lower than max_length_for_exact")
	}

	return problems
}

// EffectiveLimit resolves a per-query limit override against the settings.
// Non-positive overrides fall back to DefaultLimit; larger ones are clamped to MaxLimit.
func (s *SearchSettings) EffectiveLimit(override int) int {
	if override <= 0 {
		return s.DefaultLimit
	}
	if override > s.MaxLimit {
		return s.MaxLimit
	}
	return override
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}
