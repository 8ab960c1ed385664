package document

// SplitRuns splits runs at rune offset into the runs before and after it.
// Both halves keep the marks of the run that was split. Neither result is
// normalized.
func SplitRuns(runs []TextRun, offset int) (before, after []TextRun) {
	pos := 0
	for i, r := range runs {
		n := r.Len()
		if offset <= pos {
			return before, cloneRuns(runs[i:])
		}
		if offset < pos+n {
			rs := []rune(r.Text)
			cut := offset - pos
			before = append(before, TextRun{Text: string(rs[:cut]), Bold: r.Bold, Italic: r.Italic, Underline: r.Underline})
			after = append(after, TextRun{Text: string(rs[cut:]), Bold: r.Bold, Italic: r.Italic, Underline: r.Underline})
			return before, append(after, cloneRuns(runs[i+1:])...)
		}
		before = append(before, r)
		pos += n
	}
	return before, after
}

// SliceRuns returns the runs covering [from, to).
func SliceRuns(runs []TextRun, from, to int) []TextRun {
	_, tail := SplitRuns(runs, from)
	mid, _ := SplitRuns(tail, to-from)
	return mid
}

// MarksAt returns the marks a character typed at offset would inherit: the
// marks of the run containing offset, or at a run boundary the marks of the
// run ending there. At offset 0 the first run's marks are used.
func MarksAt(runs []TextRun, offset int) Marks {
	if len(runs) == 0 {
		return Marks{}
	}
	pos := 0
	for i, r := range runs {
		n := r.Len()
		if offset == 0 && i == 0 {
			return r.Marks()
		}
		if offset > pos && offset <= pos+n {
			return r.Marks()
		}
		pos += n
	}
	return runs[len(runs)-1].Marks()
}

// MergeRuns joins adjacent runs with identical marks and drops empty runs,
// keeping one empty run when nothing else remains. The empty run keeps the
// marks of the first input run.
func MergeRuns(runs []TextRun) []TextRun {
	out := make([]TextRun, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks() == r.Marks() {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		if len(runs) > 0 {
			return []TextRun{{Bold: runs[0].Bold, Italic: runs[0].Italic, Underline: runs[0].Underline}}
		}
		return []TextRun{{}}
	}
	return out
}

func cloneRuns(runs []TextRun) []TextRun {
	return append([]TextRun(nil), runs...)
}
