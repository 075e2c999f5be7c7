// Package utils provides input hygiene for free-text search queries and
// facet values received over HTTP.
package utils

import (
	"strings"
	"unicode"
)

const (
	// DefaultMaxQueryLength is the default maximum query length in bytes.
	DefaultMaxQueryLength = 1000
	// DefaultMaxFilterValues bounds the number of genre selections per query.
	DefaultMaxFilterValues = 50
	// DefaultMaxFilterValueLength bounds a single genre value in bytes.
	DefaultMaxFilterValueLength = 100
)

// SecurityConfig holds the limits applied to query input.
type SecurityConfig struct {
	MaxQueryLength       int
	MaxFilterValues      int
	MaxFilterValueLength int
}

func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxQueryLength:       DefaultMaxQueryLength,
		MaxFilterValues:      DefaultMaxFilterValues,
		MaxFilterValueLength: DefaultMaxFilterValueLength,
	}
}

// QuerySanitizer rejects oversized or binary input and normalizes the rest.
// It never alters quotes or operators; filter values are escaped when the
// filter expression is compiled.
type QuerySanitizer struct {
	config *SecurityConfig
}

func NewQuerySanitizer(config *SecurityConfig) *QuerySanitizer {
	if config == nil {
		config = DefaultSecurityConfig()
	}
	return &QuerySanitizer{config: config}
}

// SanitizeQuery validates query, then removes zero-width characters and
// collapses whitespace.
func (s *QuerySanitizer) SanitizeQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}
	if err := s.ValidateQuery(query); err != nil {
		return "", err
	}
	query = removeZeroWidthChars(query)
	return normalizeWhitespace(query), nil
}

// ValidateQuery checks the length limit and rejects null bytes and control
// characters other than tab, newline and carriage return.
func (s *QuerySanitizer) ValidateQuery(query string) error {
	if len(query) > s.config.MaxQueryLength {
		return &SecurityError{
			Type:    "query_too_long",
			Message: "query exceeds maximum length",
		}
	}
	if hasControlChars(query, true) {
		return &SecurityError{
			Type:    "dangerous_character",
			Message: "query contains null byte or control character",
		}
	}
	return nil
}

// ValidateFilterValues checks facet selections such as genres.
func (s *QuerySanitizer) ValidateFilterValues(values []string) error {
	if len(values) > s.config.MaxFilterValues {
		return &SecurityError{
			Type:    "too_many_values",
			Message: "too many filter values",
		}
	}
	for _, v := range values {
		if len(v) > s.config.MaxFilterValueLength {
			return &SecurityError{
				Type:    "value_too_long",
				Message: "filter value exceeds maximum length",
			}
		}
		if hasControlChars(v, false) {
			return &SecurityError{
				Type:    "dangerous_character",
				Message: "filter value contains control character",
			}
		}
	}
	return nil
}

func hasControlChars(s string, allowLineBreaks bool) bool {
	for _, r := range s {
		if allowLineBreaks && (r == '\t' || r == '\n' || r == '\r') {
			continue
		}
		if r == 0 || unicode.IsControl(r) {
			return true
		}
	}
	return false
}

var zeroWidthReplacer = strings.NewReplacer(
	"\u200B", "", // zero width space
	"\u200C", "", // zero width non-joiner
	"\u200D", "", // zero width joiner
	"\uFEFF", "", // BOM
	"\u200E", "", // left-to-right mark
	"\u200F", "", // right-to-left mark
)

func removeZeroWidthChars(input string) string {
	return zeroWidthReplacer.Replace(input)
}

func normalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// SecurityError represents rejected input.
type SecurityError struct {
	Type    string
	Message string
}

func (e *SecurityError) Error() string {
	return e.Message
}
