package band

// Runs partitions overlap into maximal runs of elements that are adjacent in
// sequence. The overlap must be given in sequence order; concatenating the
// runs reproduces it exactly. Elements missing from sequence form runs of
// their own.
func Runs(overlap, sequence []int) [][]int {
	if len(overlap) == 0 {
		return nil
	}
	pos := positions(sequence)
	var runs [][]int
	var cur []int
	prev := -2
	for _, e := range overlap {
		p, ok := pos[e]
		if !ok {
			p = -2
		}
		if len(cur) > 0 && (!ok || p != prev+1) {
			runs = append(runs, cur)
			cur = nil
		}
		cur = append(cur, e)
		prev = p
		if !ok {
			runs = append(runs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

func positions(sequence []int) map[int]int {
	pos := make(map[int]int, len(sequence))
	for i, e := range sequence {
		if _, dup := pos[e]; !dup {
			pos[e] = i
		}
	}
	return pos
}

// pieces crosses the runs of both sides into groups that are contiguous on
// both. whole reports whether the piece covers its run on A and on B.
func pieces(runsA, runsB [][]int, posB map[int]int) (out [][]int, whole []bool) {
	runOfB := make(map[int]int)
	for i, r := range runsB {
		for _, e := range r {
			runOfB[e] = i
		}
	}
	for _, ra := range runsA {
		var cur []int
		curRun, step := -1, 0
		flush := func() {
			if len(cur) > 0 {
				out = append(out, cur)
				whole = append(whole, len(cur) == len(ra) && len(cur) == len(runsB[curRun]))
			}
			cur, step = nil, 0
		}
		for _, e := range ra {
			rb, ok := runOfB[e]
			if !ok {
				continue
			}
			if len(cur) > 0 {
				d := posB[e] - posB[cur[len(cur)-1]]
				switch {
				case rb != curRun, d != 1 && d != -1, step != 0 && d != step:
					flush()
				default:
					step = d
				}
			}
			cur = append(cur, e)
			curRun = rb
		}
		flush()
	}
	return out, whole
}
