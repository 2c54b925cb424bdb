package vibematch

import "sync"

// ResultIndex answers "who was I paired with" by name and class. Keys are
// case-folded and whitespace-collapsed.
type ResultIndex struct {
	mu   sync.RWMutex
	rows map[string]ResultRow
}

// NewResultIndex indexes rows. Later rows win on duplicate name and class.
func NewResultIndex(rows []ResultRow) *ResultIndex {
	idx := &ResultIndex{}
	idx.Replace(rows)
	return idx
}

// LoadResultIndex reads a results CSV written by WriteResultsCSV.
func LoadResultIndex(path string) (*ResultIndex, error) {
	rows, err := ReadResultsCSV(path)
	if err != nil {
		return nil, err
	}
	return NewResultIndex(rows), nil
}

// Replace swaps the indexed rows.
func (x *ResultIndex) Replace(rows []ResultRow) {
	m := make(map[string]ResultRow, len(rows))
	for _, r := range rows {
		m[indexKey(r.Name, r.Group)] = r
	}
	x.mu.Lock()
	x.rows = m
	x.mu.Unlock()
}

// Find returns the row for name and group.
func (x *ResultIndex) Find(name, group string) (ResultRow, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	r, ok := x.rows[indexKey(name, group)]
	return r, ok
}

// Len reports the number of indexed people.
func (x *ResultIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rows)
}

func indexKey(name, group string) string {
	return lookupKey(name) + "\x00" + lookupKey(group)
}
