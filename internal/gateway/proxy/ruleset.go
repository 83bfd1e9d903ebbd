package proxy

import (
	"fmt"
	"net/url"
	"sort"
)

type namedRule struct {
	name string
	rule RuleHandler
}

// RuleSet is an ordered collection of dispatch rules. It is assembled once at
// startup and read-only afterwards, so Match takes no lock.
type RuleSet struct {
	rules []namedRule
}

func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

func (r *RuleSet) Add(name string, rule RuleHandler) error {
	for _, nr := range r.rules {
		if nr.name == name {
			return fmt.Errorf("rule name %s is already taken", name)
		}
	}
	r.rules = append(r.rules, namedRule{name: name, rule: rule})
	return nil
}

func (r *RuleSet) Remove(name string) error {
	for i, nr := range r.rules {
		if nr.name == name {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rule %s does not exist", name)
}

func (r *RuleSet) Len() int {
	return len(r.rules)
}

// Match returns the rule with the longest matching prefix. Rules of equal
// prefix length are won by the one added first, so declaration order can
// never shadow a more specific prefix.
func (r *RuleSet) Match(u *url.URL) (RuleHandler, bool) {
	var best RuleHandler
	for _, nr := range r.rules {
		if !nr.rule.Match(u) {
			continue
		}
		if best == nil || len(nr.rule.Matcher()) > len(best.Matcher()) {
			best = nr.rule
		}
	}
	return best, best != nil
}

// Rules returns name/matcher pairs in most-specific-first order, for the
// admin surface.
func (r *RuleSet) Rules() []RuleInfo {
	infos := make([]RuleInfo, 0, len(r.rules))
	for _, nr := range r.rules {
		info := RuleInfo{Name: nr.name, Prefix: nr.rule.Matcher()}
		switch rule := nr.rule.(type) {
		case *RedirectRule:
			info.Kind = "proxy"
			info.Target = rule.ForwardLocation.String()
		case *FileServerRule:
			info.Kind = "static"
			info.Target = rule.Dir
		}
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return len(infos[i].Prefix) > len(infos[j].Prefix)
	})
	return infos
}

// RuleInfo is the admin API's view of a single rule.
type RuleInfo struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
	Kind   string `json:"kind"`
	Target string `json:"target"`
}
