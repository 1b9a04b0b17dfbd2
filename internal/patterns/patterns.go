// Package patterns holds the extraction patterns for the supported
// statement templates. Each pattern captures exactly six groups, in this
// order: booking date, value date, transaction ID, code block, description
// and amount. Groups are captured raw; normalization happens afterwards in
// the normalize package, never inside a pattern.
package patterns

import (
	"regexp"

	"github.com/finflow/statement-extractor/internal/models"
)

// NumGroups is the fixed capture arity of every extraction pattern.
const NumGroups = 6

// Pattern is one compiled statement template for a transaction type.
type Pattern struct {
	Type models.TransactionType
	// Name identifies the template for diagnostics and golden tests.
	Name string
	re   *regexp.Regexp
}

// FindAll returns every match of the pattern in text, each as the full
// match followed by the six capture groups. A page can hold several
// transactions, so matching is always global.
func (p Pattern) FindAll(text string) [][]string {
	return p.re.FindAllStringSubmatch(text, -1)
}

// NumSubexp exposes the compiled capture-group count for invariant tests.
func (p Pattern) NumSubexp() int { return p.re.NumSubexp() }

// The description group is lazy and the amount group follows it with no
// intervening whitespace: the first amount-shaped token (comma decimal,
// optional dot-grouped thousands) glued to the description text ends it.
// That adjacency rule is what separates free description text from the
// amount on these statements.
//
// Line breaks are matched as \r?\n throughout: the same template shows up
// with and without carriage returns depending on the extraction backend.
var registry = []Pattern{
	{
		Type: models.DirectDebit,
		Name: "lastschrift/belastung",
		re: regexp.MustCompile(
			`(\d{2}\.\d{2}\.\d{4})\r?\n` + // booking date
				`(\d{2}\.\d{2}\.\d{4})Lastschrift /\r?\nBelastung\r?\n` + // value date, charge banner
				`([A-Z0-9]+)\r?\n` + // transaction ID
				`((?:[A-Z0-9]+/\d+ ?)+)` + // code/number tokens
				`([A-Za-z][\s\S]*?)` + // description, lazy
				`(-?\d{1,3}(?:\.\d{3})*,\d{2})`, // amount, adjacent
		),
	},
	{
		Type: models.CardTransaction,
		Name: "kartenverfuegung/kartenzahlung",
		re: regexp.MustCompile(
			`(\d{2}\.\d{2}\.\d{4})\r?\n` +
				`(\d{2}\.\d{2}\.\d{4})Kartenverfügung /\r?\nKartenzahlung\r?\n` +
				`([A-Z0-9]+)\r?\n` +
				`((?:[A-Z0-9]+/\d+ ?)+)` +
				`([A-Za-z][\s\S]*?)` +
				`(-?\d{1,3}(?:\.\d{3})*,\d{2})`,
		),
	},
	{
		Type: models.Transfer,
		Name: "uebertrag/ueberweisung",
		re: regexp.MustCompile(
			`(\d{2}\.\d{2}\.\d{4})\r?\n` +
				`(\d{2}\.\d{2}\.\d{4})Übertrag /\r?\nÜberweisung\r?\n` +
				`([A-Z0-9]+)\r?\n` +
				`((?:[A-Z0-9]+/\d+ ?)+)` +
				`(\s*[\s\S]+?)\r?\nGläubiger-ID:\r?\nDE\d{2}ZZZ\d{11}` + // multi-line description up to the creditor ID block
				`(-?\d{1,3}(?:\.\d{3})*,\d{2})`,
		),
	},
}

// For returns the patterns registered for one transaction type, in
// declaration order. Types with no template yield an empty slice.
func For(t models.TransactionType) []Pattern {
	var out []Pattern
	for _, p := range registry {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// All returns every registered pattern in declaration order across types.
// Pages can mix templates, so callers apply every pattern that matches,
// not just the first.
func All() []Pattern {
	out := make([]Pattern, len(registry))
	copy(out, registry)
	return out
}
