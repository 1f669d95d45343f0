package entry

import (
	"context"

	"github.com/revloop/revloop/internal/utils"
)

type StubEntryRepo struct {
	nextId int
	data   []TimesheetEntry
}

func NewStubEntryRepo() *StubEntryRepo {
	return &StubEntryRepo{}
}

func (s *StubEntryRepo) Store(ctx context.Context, entry TimesheetEntry) (int, error) {
	s.nextId++
	entry.ID = s.nextId
	s.data = append(s.data, entry)
	return entry.ID, nil
}

func (s *StubEntryRepo) GetForMonth(ctx context.Context, month utils.Month) ([]TimesheetEntry, error) {
	entries := make([]TimesheetEntry, 0, len(s.data))
	for _, e := range s.data {
		if utils.MonthOf(e.WorkDate) == month {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *StubEntryRepo) Cleanup() {
	s.data = nil
	s.nextId = 0
}
