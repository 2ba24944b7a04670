package explode

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Rule maps a normalized mesh name to a Kind when Match returns true.
type Rule struct {
	Name  string
	Kind  Kind
	Match func(name string) bool
}

// DefaultRules is the ordered rule list for the phone asset. The first
// matching rule wins, so bezel must come before front: "glass" is a
// substring of both names.
var DefaultRules = []Rule{
	{
		Name: "bezel",
		Kind: KindBezel,
		Match: func(name string) bool {
			return strings.Contains(name, "bezel")
		},
	},
	{
		Name: "glass-front",
		Kind: KindFront,
		Match: func(name string) bool {
			return strings.Contains(name, "glass_front") ||
				strings.Contains(name, "glass front") ||
				(strings.Contains(name, "glass") && !strings.Contains(name, "bezel"))
		},
	},
	{
		Name: "display",
		Kind: KindDisplay,
		Match: func(name string) bool {
			return strings.Contains(name, "display") || strings.Contains(name, "oled")
		},
	},
}

// NormalizeName folds a mesh name for matching: compatibility forms
// (full-width letters, ligatures) are decomposed and case is folded.
func NormalizeName(name string) string {
	return cases.Fold().String(norm.NFKC.String(name))
}

// ClassifyName returns the kind of the first rule matching name, or
// KindBody when none does. Rules see NormalizeName(name): for ASCII names
// that is plain lower-casing, but it also matches wider than lower-casing
// would, so "ＤＩＳＰＬＡＹ" hits the display rule and "ß" compares as "ss".
func ClassifyName(name string, rules []Rule) Kind {
	folded := NormalizeName(name)
	for _, r := range rules {
		if r.Match(folded) {
			return r.Kind
		}
	}
	return KindBody
}
