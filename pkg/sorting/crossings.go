package sorting

// Crossings counts the element splines that cross between two orderings.
// Elements present in only one ordering are ignored.
//
// Two splines e1 and e2 cross if and only if:
//
//	pos(first, e1) < pos(first, e2) AND pos(second, e1) > pos(second, e2)
//
// which is the number of inversions of second's positions taken in first's
// order, counted with a Fenwick tree in O(n log n).
func Crossings(first, second []int) int {
	pos := make(map[int]int, len(second))
	for i, e := range second {
		if _, dup := pos[e]; !dup {
			pos[e] = i
		}
	}
	targets := make([]int, 0, len(first))
	for _, e := range first {
		if p, ok := pos[e]; ok {
			targets = append(targets, p)
		}
	}
	if len(targets) < 2 {
		return 0
	}

	fenwick := make([]int, len(second)+1)
	crossings, total := 0, 0
	for _, t := range targets {
		lessOrEqual := 0
		for q := t + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for idx := t + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// TotalCrossings sums [Crossings] between order and each neighbour sequence.
func TotalCrossings(order []int, neighbours [][]int) int {
	total := 0
	for _, n := range neighbours {
		total += Crossings(order, n)
	}
	return total
}
