package contents

import "sort"

// Ranking is the tally ordered by descending file count. It never changes
// once built.
type Ranking struct {
	entries []Entry
}

// Rank orders the tally. The entries are stable-sorted by ascending count
// and then read back to front, so packages with equal counts come out in
// reverse first-seen order. A descending stable sort would keep first-seen
// order instead and is not a substitute.
//
// The ranking is computed once; later calls return the same value.
func (t *Tally) Rank() *Ranking {
	if t.ranking != nil {
		return t.ranking
	}

	ascending := make([]Entry, len(t.entries))
	copy(ascending, t.entries)
	sort.SliceStable(ascending, func(i, j int) bool {
		return ascending[i].Files < ascending[j].Files
	})

	ranked := make([]Entry, len(ascending))
	for i := range ascending {
		ranked[i] = ascending[len(ascending)-1-i]
	}

	t.ranking = &Ranking{entries: ranked}
	return t.ranking
}

// TopK returns the first k entries. Fewer are returned when the ranking is
// shorter than k, and none when k is not positive.
func (r *Ranking) TopK(k int) []Entry {
	if k <= 0 {
		return []Entry{}
	}
	if k > len(r.entries) {
		k = len(r.entries)
	}
	out := make([]Entry, k)
	copy(out, r.entries[:k])
	return out
}

// Entries returns the full ranking.
func (r *Ranking) Entries() []Entry {
	return r.TopK(len(r.entries))
}

// Len returns the number of ranked packages.
func (r *Ranking) Len() int {
	return len(r.entries)
}
