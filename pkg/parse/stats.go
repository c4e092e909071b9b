package parse

import (
	"fmt"
	"io"
	"sort"
)

// Stats collects memoization statistics. It is passed to Parse through
// Config and may be shared by consecutive parses, but not by concurrent ones.
type Stats struct {
	hits [ruleCount]int
	// Number of tokens pulled from tokenizers.
	Fills int
}

// NewStats returns an empty Stats.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) hit(id ruleID) { s.hits[id]++ }

// Reset clears all counters.
func (s *Stats) Reset() { *s = Stats{} }

// Table returns the memo hit counters, indexed by rule identity.
func (s *Stats) Table() []int {
	t := make([]int, ruleCount)
	copy(t, s.hits[:])
	return t
}

// Hits returns the number of memo hits of the named rule.
func (s *Stats) Hits(rule string) int {
	for id := ruleID(0); id < ruleCount; id++ {
		if id.String() == rule {
			return s.hits[id]
		}
	}
	return 0
}

// Total returns the number of memo hits of all rules.
func (s *Stats) Total() int {
	n := 0
	for _, h := range s.hits {
		n += h
	}
	return n
}

// Named returns the nonzero counters keyed by rule name.
func (s *Stats) Named() map[string]int {
	m := make(map[string]int)
	for id, h := range s.hits {
		if h > 0 {
			m[ruleID(id).String()] = h
		}
	}
	return m
}

// RuleNames returns the names of all rules, indexed by rule identity.
func RuleNames() []string {
	names := make([]string, ruleCount)
	for id := range names {
		names[id] = ruleID(id).String()
	}
	return names
}

// WriteTable writes the nonzero counters, most hits first, with each line
// clipped to width columns if width is positive.
func WriteTable(w io.Writer, hits map[string]int, width int) {
	names := make([]string, 0, len(hits))
	for name := range hits {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if hits[names[i]] != hits[names[j]] {
			return hits[names[i]] > hits[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		line := fmt.Sprintf("%-36s %d", name, hits[name])
		if width > 0 && len(line) > width {
			line = line[:width]
		}
		fmt.Fprintln(w, line)
	}
}
