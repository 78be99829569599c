package repository

import (
	"context"
	"sync"

	"github.com/spec-kit/convodocs/internal/domain"
)

// MemoryStore keeps teams, members and documents in process memory, in insertion order.
// It backs the service when no Postgres DSN is configured and in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	teams     []domain.Team
	documents []domain.Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Documents exposes the store as a DocumentRepository.
func (s *MemoryStore) Documents() DocumentRepository { return memoryDocuments{s} }

// Teams exposes the store as a TeamRepository.
func (s *MemoryStore) Teams() TeamRepository { return memoryTeams{s} }

type memoryDocuments struct{ s *MemoryStore }

func (m memoryDocuments) Create(_ context.Context, doc *domain.Document) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.documents = append(m.s.documents, *doc.Clone())
	return nil
}

func (m memoryDocuments) Update(_ context.Context, doc *domain.Document) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.documentIndex(doc.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.s.documents[i] = *doc.Clone()
	return nil
}

func (m memoryDocuments) GetByID(_ context.Context, id string) (*domain.Document, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	i := m.s.documentIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return m.s.documents[i].Clone(), nil
}

func (m memoryDocuments) List(_ context.Context, filter DocumentFilter) ([]domain.Document, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := []domain.Document{}
	for i := range m.s.documents {
		if filter.Matches(&m.s.documents[i]) {
			out = append(out, *m.s.documents[i].Clone())
		}
	}
	return out, nil
}

func (m memoryDocuments) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.documentIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.s.documents = append(m.s.documents[:i], m.s.documents[i+1:]...)
	return nil
}

type memoryTeams struct{ s *MemoryStore }

func (m memoryTeams) Create(_ context.Context, team *domain.Team) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := team.Clone()
	if cp.Members == nil {
		cp.Members = []domain.TeamMember{}
	}
	m.s.teams = append(m.s.teams, cp)
	return nil
}

func (m memoryTeams) Update(_ context.Context, team *domain.Team) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.teamIndex(team.ID)
	if i < 0 {
		return ErrNotFound
	}
	m.s.teams[i].Name = team.Name
	m.s.teams[i].Description = team.Description
	return nil
}

func (m memoryTeams) GetByID(_ context.Context, id string) (*domain.Team, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	i := m.s.teamIndex(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	cp := m.s.teams[i].Clone()
	return &cp, nil
}

func (m memoryTeams) List(_ context.Context) ([]domain.Team, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]domain.Team, 0, len(m.s.teams))
	for _, t := range m.s.teams {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (m memoryTeams) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.teamIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.s.teams = append(m.s.teams[:i], m.s.teams[i+1:]...)
	kept := m.s.documents[:0]
	for _, doc := range m.s.documents {
		if doc.TeamID != id {
			kept = append(kept, doc)
		}
	}
	m.s.documents = kept
	return nil
}

func (m memoryTeams) AddMember(_ context.Context, teamID string, member *domain.TeamMember) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.teamIndex(teamID)
	if i < 0 {
		return ErrNotFound
	}
	m.s.teams[i].Members = append(m.s.teams[i].Members, *member)
	return nil
}

func (m memoryTeams) UpdateMember(_ context.Context, teamID string, member *domain.TeamMember) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.teamIndex(teamID)
	if i < 0 {
		return ErrNotFound
	}
	j := m.s.teams[i].FindMember(member.ID)
	if j < 0 {
		return ErrNotFound
	}
	existing := &m.s.teams[i].Members[j]
	existing.Name = member.Name
	existing.Email = member.Email
	existing.Role = member.Role
	return nil
}

func (m memoryTeams) DeleteMember(_ context.Context, teamID, memberID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	i := m.s.teamIndex(teamID)
	if i < 0 {
		return ErrNotFound
	}
	j := m.s.teams[i].FindMember(memberID)
	if j < 0 {
		return ErrNotFound
	}
	members := m.s.teams[i].Members
	m.s.teams[i].Members = append(members[:j:j], members[j+1:]...)
	return nil
}

func (m memoryTeams) GetMember(_ context.Context, memberID string) (*domain.TeamMember, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, t := range m.s.teams {
		if j := t.FindMember(memberID); j >= 0 {
			member := t.Members[j]
			return &member, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) documentIndex(id string) int {
	for i := range s.documents {
		if s.documents[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) teamIndex(id string) int {
	for i := range s.teams {
		if s.teams[i].ID == id {
			return i
		}
	}
	return -1
}
