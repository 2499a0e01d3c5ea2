// Package search indexes products for free-text lookup.
package search

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/Skotchmaster/meneric/internal/models"
)

type Index interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id string) error
	// Search returns the total hit count and one page of product ids, best first.
	Search(ctx context.Context, query string, from, size int) (int64, []string, error)
}

type doc struct {
	id   string
	text string
	name string
}

// Memory is a case-insensitive substring index used when Elasticsearch is not
// configured. Name matches rank above description or category matches.
type Memory struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]doc
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]doc)}
}

func (m *Memory) Index(_ context.Context, p models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.docs[p.ID] = doc{
		id:   p.ID,
		name: strings.ToLower(p.Name),
		text: strings.ToLower(p.Description + " " + p.Category),
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return nil
	}
	delete(m.docs, id)
	m.order = slices.DeleteFunc(m.order, func(s string) bool { return s == id })
	return nil
}

func (m *Memory) Search(_ context.Context, query string, from, size int) (int64, []string, error) {
	q := strings.ToLower(strings.TrimSpace(query))

	m.mu.RLock()
	var byName, byText []string
	for _, id := range m.order {
		d := m.docs[id]
		switch {
		case strings.Contains(d.name, q):
			byName = append(byName, id)
		case strings.Contains(d.text, q):
			byText = append(byText, id)
		}
	}
	m.mu.RUnlock()

	hits := append(byName, byText...)
	total := int64(len(hits))
	if from >= len(hits) {
		return total, []string{}, nil
	}
	end := min(from+size, len(hits))
	return total, hits[from:end], nil
}
