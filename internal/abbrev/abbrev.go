// Package abbrev reads the "ABBR: full term" lines a model returns for an
// abbreviation index request.
package abbrev

import (
	"strings"
)

// Entry is one abbreviation and the term it stands for.
type Entry struct {
	Abbreviation string `json:"abbreviation"`
	Term         string `json:"term"`
}

func (e Entry) String() string {
	return e.Abbreviation + ": " + e.Term
}

// Parse returns one entry per "ABBR: full term" line in output, in order.
// Other lines are ignored. Duplicates are kept.
func Parse(output string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")

		abbr, term, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		abbr = strings.TrimSpace(abbr)
		term = strings.TrimSpace(term)
		if abbr == "" || term == "" || strings.ContainsAny(abbr, " \t") {
			continue
		}
		entries = append(entries, Entry{Abbreviation: abbr, Term: term})
	}
	return entries
}

// Less orders entries by abbreviation, ignoring case. Abbreviations that
// differ only in case are ordered by their bytes.
func Less(a, b Entry) bool {
	la, lb := strings.ToLower(a.Abbreviation), strings.ToLower(b.Abbreviation)
	if la != lb {
		return la < lb
	}
	return a.Abbreviation < b.Abbreviation
}

// IsSorted reports whether entries are in non-decreasing Less order.
func IsSorted(entries []Entry) bool {
	for i := 1; i < len(entries); i++ {
		if Less(entries[i], entries[i-1]) {
			return false
		}
	}
	return true
}
