package intfa

import "sort"

// Bucket is one allocator-assigned group of mutually non-conflicting
// terminal names, eventually compiled into a single IntFA shared by every
// RTN state assigned to it.
type Bucket struct {
	Terminals []string
}

// Allocate implements spec.md §4.3 step 3: given the per-RTN-state sets
// of terminals that might be lexed next (candidateSets, one entry per
// RTN state needing an IntFA), greedily assign each state to an existing
// bucket if none of that bucket's terminals conflicts with any terminal
// in the new set, or start a new bucket otherwise. Returns the resulting
// buckets and, per input set, which bucket index it landed in.
func Allocate(conflicts ConflictSet, candidateSets [][]string) (buckets []Bucket, assignment []int) {
	assignment = make([]int, len(candidateSets))
	for i, set := range candidateSets {
		placed := -1
		for bi := range buckets {
			if fits(conflicts, buckets[bi].Terminals, set) {
				placed = bi
				break
			}
		}
		if placed < 0 {
			buckets = append(buckets, Bucket{})
			placed = len(buckets) - 1
		}
		assignment[i] = placed
		buckets[placed].Terminals = unionSorted(buckets[placed].Terminals, set)
	}
	return buckets, assignment
}

func fits(conflicts ConflictSet, bucket, candidate []string) bool {
	for _, a := range bucket {
		for _, b := range candidate {
			if conflicts.Conflicting(a, b) {
				return false
			}
		}
	}
	return true
}

func unionSorted(a, b []string) []string {
	seen := map[string]bool{}
	for _, s := range a {
		seen[s] = true
	}
	out := append([]string(nil), a...)
	for _, s := range b {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
