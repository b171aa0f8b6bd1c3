package table

// MergeStats reports what Merge did with the incoming rows.
type MergeStats struct {
	Kept     int // existing rows carried over untouched
	Added    int // fresh rows for files the existing table did not hold
	Replaced int // existing rows superseded by a fresh extraction of their file
	Dropped  int // rows discarded as exact duplicates of an earlier row
}

// Merge folds fresh into existing under columns.
//
// Both inputs are projected onto columns first. Fresh rows are grouped by
// filename; a file that appears in fresh replaces every existing row of that
// file, and the group takes the position of the file's first existing row.
// Files only in fresh are appended in fresh order. A row equal in every
// cell to an earlier one is dropped, so merging a table with itself changes
// nothing while distinct outcomes sharing an analysis_id all survive.
//
// existing may be nil.
func Merge(existing, fresh *Table, columns []string) (*Table, MergeStats) {
	var st MergeStats
	out := New(columns)
	seen := make(map[string]bool)

	var order []string
	groups := make(map[string][][]Value)
	if fresh != nil {
		p := fresh.Project(columns)
		for i, row := range p.rows {
			key := p.Key(i)
			if seen[key] {
				st.Dropped++
				continue
			}
			seen[key] = true
			f := p.Cell(i, ColFilename).String()
			if _, ok := groups[f]; !ok {
				order = append(order, f)
			}
			groups[f] = append(groups[f], row)
		}
	}

	emitted := make(map[string]bool, len(groups))
	if existing != nil {
		p := existing.Project(columns)
		for i, row := range p.rows {
			f := p.Cell(i, ColFilename).String()
			if g, ok := groups[f]; ok {
				st.Replaced++
				if !emitted[f] {
					emitted[f] = true
					out.rows = append(out.rows, g...)
				}
				continue
			}
			key := p.Key(i)
			if seen[key] {
				st.Dropped++
				continue
			}
			seen[key] = true
			out.rows = append(out.rows, row)
			st.Kept++
		}
	}

	for _, f := range order {
		if emitted[f] {
			continue
		}
		out.rows = append(out.rows, groups[f]...)
		st.Added += len(groups[f])
	}
	return out, st
}
