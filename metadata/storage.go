package metadata

import (
	"sync"

	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
)

type MetadataStorage interface {
	Save(wf model.Workflow) error
	Delete(id string) error
	Get(id string) (*model.Workflow, error)
	GetAll() ([]*model.Workflow, error)
}

type inMemMetadataStorage struct {
	mu        sync.RWMutex
	workflows map[string]model.Workflow
}

func NewInMemMetadataStorage() MetadataStorage {
	return &inMemMetadataStorage{
		workflows: make(map[string]model.Workflow),
	}
}

func (s *inMemMetadataStorage) Save(wf model.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workflows[wf.Id] = wf
	return nil
}

func (s *inMemMetadataStorage) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workflows, id)
	return nil
}

func (s *inMemMetadataStorage) Get(id string) (*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wf, ok := s.workflows[id]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &wf, nil
}

func (s *inMemMetadataStorage) GetAll() ([]*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*model.Workflow, 0, len(s.workflows))
	for id := range s.workflows {
		wf := s.workflows[id]
		all = append(all, &wf)
	}
	return all, nil
}
