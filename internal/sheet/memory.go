package sheet

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and the "memory" driver.
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

func (m *Memory) Rows(_ context.Context, sheet string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, ErrSheetNotFound
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *Memory) Append(_ context.Context, sheet string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; !ok {
		return ErrSheetNotFound
	}
	m.sheets[sheet] = append(m.sheets[sheet], append([]string(nil), row...))
	return nil
}

func (m *Memory) Create(_ context.Context, sheet string, header []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sheets[sheet]; ok {
		return ErrSheetExists
	}
	m.sheets[sheet] = [][]string{append([]string(nil), header...)}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// DeleteRow removes the row at the 1-based sheet position, the same way an
// operator deletes an order line directly in the spreadsheet.
func (m *Memory) DeleteRow(sheet string, rowNum int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.sheets[sheet]
	if !ok || rowNum < 1 || rowNum > len(rows) {
		return false
	}
	m.sheets[sheet] = append(rows[:rowNum-1], rows[rowNum:]...)
	return true
}
