package search

// Rule matches results by location and type; an empty field matches
// anything.
type Rule struct {
	Location Location `json:"location,omitempty" yaml:"location,omitempty"`
	Type     Type     `json:"type,omitempty" yaml:"type,omitempty"`
}

// Match reports whether res satisfies every field set in the rule.
func (r Rule) Match(res Result) bool {
	if r.Location != "" && r.Location != res.Location {
		return false
	}
	if r.Type != "" && r.Type != res.Type {
		return false
	}
	return true
}

// DefaultPriorities ranks results, highest first: named entities, then
// parameters, column names, quantities and finally cells.
func DefaultPriorities() []Rule {
	return []Rule{
		{Type: TypeNE},
		{Location: LocArgs},
		{Location: LocColname},
		{Type: TypeQuant},
		{Location: LocCell},
	}
}

// Resolve enables exactly one result of rs: the first one matching the
// best ranked rule. A lone result is always enabled.
func Resolve(rs []Result, rules []Rule) {
	if len(rs) == 0 {
		return
	}
	best, bestRank := 0, len(rules)+1
	for i, res := range rs {
		if rank := rankOf(res, rules); rank < bestRank {
			best, bestRank = i, rank
		}
	}
	for i := range rs {
		rs[i].Enabled = i == best
	}
}

func rankOf(res Result, rules []Rule) int {
	for i, rule := range rules {
		if rule.Match(res) {
			return i
		}
	}
	return len(rules)
}
