package domain

import "strings"

// Relevance ranks a customer against a search term. Lower ranks sort first;
// the ranks compare element by element: email prefix, email contains, phone
// prefix, phone contains, address prefix, address contains. Matched is false
// when none of phone, email or address contains the term.
type Relevance struct {
	Ranks   [6]int
	Matched bool
}

// Rank computes the case-insensitive relevance of c for term.
func Rank(c *Customer, term string) Relevance {
	term = strings.ToLower(strings.TrimSpace(term))
	fields := []string{strings.ToLower(c.Email), strings.ToLower(c.Phone), strings.ToLower(c.Address)}
	var r Relevance
	for i, field := range fields {
		prefix, contains := 1, 1
		if strings.HasPrefix(field, term) {
			prefix = 0
		}
		if strings.Contains(field, term) {
			contains = 0
			r.Matched = true
		}
		r.Ranks[i*2] = prefix
		r.Ranks[i*2+1] = contains
	}
	return r
}

// Compare orders two relevances, returning -1, 0 or 1.
func (r Relevance) Compare(other Relevance) int {
	for i := range r.Ranks {
		if r.Ranks[i] != other.Ranks[i] {
			if r.Ranks[i] < other.Ranks[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
