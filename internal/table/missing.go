package table

// Missing describes how far a table is from satisfying a required schema.
type Missing struct {
	// Columns lists required columns absent from the schema outright.
	Columns []string
	// Rows holds the indexes of incomplete rows, ascending.
	Rows []int
	// Nulls counts Null cells per required column that is present.
	Nulls map[string]int
}

// Empty reports whether the table fully satisfies the schema.
func (m Missing) Empty() bool {
	return len(m.Columns) == 0 && len(m.Rows) == 0
}

// Missing checks t against required. When any required column is absent
// every row is incomplete, since a column that was never computed cannot be
// told apart from one without data. Otherwise a row is incomplete when it
// holds Null in a required column, except for columns listed in nullable.
func (t *Table) Missing(required []string, nullable ...string) Missing {
	skip := make(map[string]bool, len(nullable))
	for _, n := range nullable {
		skip[n] = true
	}

	m := Missing{Nulls: make(map[string]int)}
	var present []int
	for _, c := range required {
		j, ok := t.index[c]
		if !ok {
			m.Columns = append(m.Columns, c)
			continue
		}
		if !skip[c] {
			present = append(present, j)
		}
	}

	for i, row := range t.rows {
		incomplete := len(m.Columns) > 0
		for _, j := range present {
			if row[j].IsNull() {
				m.Nulls[t.columns[j]]++
				incomplete = true
			}
		}
		if incomplete {
			m.Rows = append(m.Rows, i)
		}
	}
	return m
}

// IncompleteFiles returns the filenames owning at least one row listed in m.
func (t *Table) IncompleteFiles(m Missing) map[string]bool {
	out := make(map[string]bool)
	for _, i := range m.Rows {
		out[t.Cell(i, ColFilename).String()] = true
	}
	return out
}
