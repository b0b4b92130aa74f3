package textfilter

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// replacements maps words unsuitable for family ratings to milder ones.
var replacements = map[string]string{
	"fuck":         "fudge",
	"fucking":      "flipping",
	"motherfucker": "mother-trucker",
	"shit":         "shoot",
	"bullshit":     "baloney",
	"damn":         "dang",
	"goddamn":      "gosh-dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"bitch":        "jerk",
	"bastard":      "scoundrel",
	"crap":         "crud",
	"piss":         "ticked",
	"dick":         "jerk",
	"prick":        "jerk",
	"whore":        "[censored]",
	"slut":         "[censored]",
}

// Filter replaces profanity in generated narration.
// A single pattern matches every listed word on word boundaries, longest first.
type Filter struct {
	pattern *regexp.Regexp
}

// New compiles the filter.
func New() *Filter {
	words := make([]string, 0, len(replacements))
	for word := range replacements {
		words = append(words, regexp.QuoteMeta(word))
	}
	sort.Slice(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})

	return &Filter{
		pattern: regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`),
	}
}

// Apply returns text with every listed word replaced, keeping the original casing.
func (f *Filter) Apply(text string) string {
	return f.pattern.ReplaceAllStringFunc(text, func(match string) string {
		replacement, ok := replacements[strings.ToLower(match)]
		if !ok {
			return match
		}
		return matchCase(match, replacement)
	})
}

// ApplyAll filters each entry of texts into a new slice.
func (f *Filter) ApplyAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, text := range texts {
		out[i] = f.Apply(text)
	}
	return out
}

// Contains reports whether text has any listed word.
func (f *Filter) Contains(text string) bool {
	return f.pattern.MatchString(text)
}

// matchCase copies the casing of original onto replacement. Casers are stateful, so one is built per call.
func matchCase(original, replacement string) string {
	title := cases.Title(language.English)
	switch {
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return replacement
	case title.String(strings.ToLower(original)) == original:
		return title.String(replacement)
	}

	// Mixed case: copy the case of each original rune, lower for the rest.
	orig := []rune(original)
	out := []rune(replacement)
	for i, r := range out {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out[i] = unicode.ToUpper(r)
		} else {
			out[i] = unicode.ToLower(r)
		}
	}
	return string(out)
}

// ShouldFilterContent reports whether a content rating calls for filtering.
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}
