package stringset

import (
	"slices"

	"github.com/samber/lo"
)

type StringSet map[string]struct{}

func Of(items ...string) StringSet {
	ss := make(StringSet, len(items))
	for _, s := range items {
		ss.Add(s)
	}
	return ss
}

func (ss StringSet) Add(s string) StringSet {
	ss[s] = struct{}{}
	return ss
}

func (ss StringSet) Contains(s string) bool {
	_, ok := ss[s]
	return ok
}

// Sorted returns the members in ascending order
func (ss StringSet) Sorted() []string {
	keys := lo.Keys(ss)
	slices.Sort(keys)
	return keys
}
