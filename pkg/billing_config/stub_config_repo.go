package billing_config

import (
	"context"
)

type StubOverrideRepo struct {
	nextId int
	data   map[int]Override
}

func NewStubOverrideRepo() *StubOverrideRepo {
	return &StubOverrideRepo{data: map[int]Override{}}
}

func (s *StubOverrideRepo) Store(ctx context.Context, override Override) (int, error) {
	s.nextId++
	override.ID = s.nextId
	s.data[override.ID] = override
	return override.ID, nil
}

func (s *StubOverrideRepo) GetAllForProject(ctx context.Context, projectId int) ([]Override, error) {
	overrides := make([]Override, 0, len(s.data))
	for _, override := range s.data {
		if override.ProjectID == projectId {
			overrides = append(overrides, override)
		}
	}
	return overrides, nil
}

func (s *StubOverrideRepo) Update(ctx context.Context, override Override) error {
	if _, ok := s.data[override.ID]; !ok {
		return ErrOverrideNotFound
	}
	s.data[override.ID] = override
	return nil
}

func (s *StubOverrideRepo) Delete(ctx context.Context, id int) error {
	if _, ok := s.data[id]; !ok {
		return ErrOverrideNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *StubOverrideRepo) Cleanup() {
	s.data = map[int]Override{}
	s.nextId = 0
}
