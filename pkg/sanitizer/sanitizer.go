// Package sanitizer normalizes free-text input before validation and
// persistence.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reUsername = regexp.MustCompile(`[^a-z0-9-]+`)

// TrimAndNormalize trims the string and collapses internal whitespace
// runs into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeUsername lowercases the handle and strips everything outside
// letters, digits and hyphens. Whitespace becomes hyphens so pasted
// display names degrade into plausible handles.
func NormalizeUsername(username string) string {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToLower,
		func(s string) string { return strings.ReplaceAll(s, " ", "-") },
		func(s string) string { return reUsername.ReplaceAllString(s, "") },
		func(s string) string { return strings.Trim(s, "-") },
	}
	return p.Apply(username)
}

// NormalizeFreeText cleans multi-line user text (bios, booking notes)
// without flattening intentional line breaks.
func NormalizeFreeText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, TrimAndNormalize(line))
	}
	return strings.Join(out, "\n")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
