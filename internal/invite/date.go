package invite

import (
	"fmt"
	"strings"
	"time"
)

// DateSpec is a calendar date with no time of day attached.
type DateSpec struct {
	Year  int
	Month time.Month
	Day   int
}

// DateGrammar identifies one accepted date notation.
type DateGrammar int

const (
	DateISO       DateGrammar = iota // 2025-09-17
	DateSlash                        // 17/09/2025
	DateDash                         // 17-09-2025
	DateShortName                    // 17 Sep 2025
	DateLongName                     // 17 September 2025
)

// dateGrammar pairs the lenient layout used for parsing (single-digit day
// and month allowed) with the canonical layout used for formatting.
type dateGrammar struct {
	grammar DateGrammar
	parse   string
	format  string
}

// dateGrammars is tried in order; the first successful parse wins. Numeric
// slash and dash triples are always day-first.
var dateGrammars = []dateGrammar{
	{DateISO, "2006-1-2", "2006-01-02"},
	{DateSlash, "2/1/2006", "02/01/2006"},
	{DateDash, "2-1-2006", "02-01-2006"},
	{DateShortName, "2 Jan 2006", "02 Jan 2006"},
	{DateLongName, "2 January 2006", "02 January 2006"},
}

// ParseDate interprets s against the accepted date grammars.
func ParseDate(s string) (DateSpec, error) {
	d, _, err := ParseDateGrammar(s)
	return d, err
}

// ParseDateGrammar is ParseDate but also reports which grammar matched.
func ParseDateGrammar(s string) (DateSpec, DateGrammar, error) {
	in := strings.Join(strings.Fields(s), " ")
	for _, g := range dateGrammars {
		t, err := time.Parse(g.parse, in)
		if err != nil {
			continue
		}
		return DateSpec{Year: t.Year(), Month: t.Month(), Day: t.Day()}, g.grammar, nil
	}
	return DateSpec{}, 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// Format renders d in the canonical form of grammar g.
func (d DateSpec) Format(g DateGrammar) string {
	layout := dateGrammars[DateISO].format
	for _, dg := range dateGrammars {
		if dg.grammar == g {
			layout = dg.format
			break
		}
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(layout)
}

func (d DateSpec) String() string {
	return d.Format(DateISO)
}
