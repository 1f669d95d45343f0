package carryover

import (
	"context"

	"github.com/revloop/revloop/internal/utils"
)

type ledgerKey struct {
	projectId   int
	sourceMonth utils.Month
}

type StubLedgerRepo struct {
	data map[ledgerKey]LedgerEntry
	// FailWrites makes Upsert and Delete return an error, for testing the
	// fire-and-forget behavior of the syncer.
	FailWrites error
}

func NewStubLedgerRepo() *StubLedgerRepo {
	return &StubLedgerRepo{data: map[ledgerKey]LedgerEntry{}}
}

func (s *StubLedgerRepo) Upsert(ctx context.Context, entry LedgerEntry) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.data[ledgerKey{entry.ProjectID, entry.SourceMonth}] = entry
	return nil
}

func (s *StubLedgerRepo) Delete(ctx context.Context, projectId int, sourceMonth utils.Month) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}
	delete(s.data, ledgerKey{projectId, sourceMonth})
	return nil
}

func (s *StubLedgerRepo) FindLatestBefore(ctx context.Context, projectId int, targetMonth utils.Month) (LedgerEntry, error) {
	var latest LedgerEntry
	found := false
	for key, entry := range s.data {
		if key.projectId != projectId || !key.sourceMonth.Before(targetMonth) {
			continue
		}
		if !found || key.sourceMonth.After(latest.SourceMonth) {
			latest = entry
			found = true
		}
	}
	if !found {
		return LedgerEntry{}, ErrNoLedgerEntry
	}
	return latest, nil
}

func (s *StubLedgerRepo) GetAllForProject(ctx context.Context, projectId int) ([]LedgerEntry, error) {
	var entries []LedgerEntry
	for key, entry := range s.data {
		if key.projectId == projectId {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (s *StubLedgerRepo) Get(projectId int, sourceMonth utils.Month) (LedgerEntry, bool) {
	entry, ok := s.data[ledgerKey{projectId, sourceMonth}]
	return entry, ok
}

func (s *StubLedgerRepo) Cleanup() {
	s.data = map[ledgerKey]LedgerEntry{}
	s.FailWrites = nil
}
