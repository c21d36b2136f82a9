package feed

import (
	"regexp"
	"strings"

	"centremart/models"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]`)
	// common misspellings folded to one spelling on both sides of a match
	spellings = []struct {
		re   *regexp.Regexp
		with string
	}{
		{regexp.MustCompile(`moblie|mobl|mobliee`), "mobile"},
		{regexp.MustCompile(`sho|sneekar|snkar`), "shoe"},
		{regexp.MustCompile(`laptap|labtop`), "laptop"},
		{regexp.MustCompile(`tv|teevee|tvee`), "television"},
	}
)

// Normalize lower-cases s, drops everything but letters and digits and
// folds known misspellings
func Normalize(s string) string {
	s = nonAlnum.ReplaceAllString(strings.ToLower(s), "")
	for _, sp := range spellings {
		s = sp.re.ReplaceAllString(s, sp.with)
	}
	return s
}

// Matches reports whether term occurs in the product's name, description or category
func Matches(p models.Product, term string) bool {
	cleaned := Normalize(term)
	if cleaned == "" {
		return true
	}
	return strings.Contains(Normalize(p.Name), cleaned) ||
		strings.Contains(Normalize(p.Description), cleaned) ||
		strings.Contains(Normalize(p.Category), cleaned)
}

// Filter returns the products matching term; an empty term returns list unchanged
func Filter(list []models.Product, term string) []models.Product {
	if term == "" {
		return list
	}
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		if Matches(p, term) {
			out = append(out, p)
		}
	}
	return out
}
