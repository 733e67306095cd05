package materials

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items []models.Material
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Replace(items []models.Material) {
	cp := make([]models.Material, len(items))
	for i, m := range items {
		cp[i] = m.Clone()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = cp
}

func (r *MemoryRepository) All() []models.Material {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Material, len(r.items))
	for i, m := range r.items {
		out[i] = m.Clone()
	}
	return out
}

func (r *MemoryRepository) Get(id int64) (models.Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Material{}, false
	}
	return r.items[i].Clone(), true
}

func (r *MemoryRepository) Children(parentID *int64) []models.Material {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Material, 0)
	for _, m := range r.items {
		if models.SameID(m.ParentID, parentID) {
			out = append(out, m.Clone())
		}
	}
	return out
}

func (r *MemoryRepository) Prepend(m models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.ParentID != nil && r.indexOf(*m.ParentID) < 0 {
		return ErrNotFound
	}
	if i := r.indexOf(m.ID); i >= 0 {
		r.items[i] = m.Clone()
		return nil
	}
	r.items = slices.Insert(r.items, 0, m.Clone())
	return nil
}

func (r *MemoryRepository) Put(m models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(m.ID)
	if i < 0 {
		return ErrNotFound
	}
	r.items[i] = m.Clone()
	return nil
}

func (r *MemoryRepository) SetName(id int64, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return "", ErrNotFound
	}
	prev := r.items[i].Name
	r.items[i].Name = name
	return prev, nil
}

func (r *MemoryRepository) SetParent(id int64, parentID *int64) (*int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	prev := r.items[i].ParentID
	r.items[i].ParentID = models.CloneID(parentID)
	return prev, nil
}

func (r *MemoryRepository) Remove(ids []int64) int {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.items)
	r.items = slices.DeleteFunc(r.items, func(m models.Material) bool {
		_, ok := drop[m.ID]
		return ok
	})
	return before - len(r.items)
}

func (r *MemoryRepository) Breadcrumb(folderID *int64, rootName string) []models.Crumb {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var path []models.Crumb
	seen := make(map[int64]bool)
	for cur := folderID; cur != nil && !seen[*cur]; {
		seen[*cur] = true
		i := r.indexOf(*cur)
		if i < 0 {
			// dangling reference: stop the walk here
			break
		}
		m := r.items[i]
		path = append(path, models.Crumb{ID: models.IDPtr(m.ID), Name: m.Name})
		cur = m.ParentID
	}

	out := make([]models.Crumb, 0, len(path)+1)
	out = append(out, models.Crumb{Name: rootName})
	for i := len(path) - 1; i >= 0; i-- {
		out = append(out, path[i])
	}
	return out
}

func (r *MemoryRepository) IsAncestor(id int64, node *int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int64]bool)
	for cur := node; cur != nil && !seen[*cur]; {
		if *cur == id {
			return true
		}
		seen[*cur] = true
		i := r.indexOf(*cur)
		if i < 0 {
			return false
		}
		cur = r.items[i].ParentID
	}
	return false
}

func (r *MemoryRepository) indexOf(id int64) int {
	return slices.IndexFunc(r.items, func(m models.Material) bool { return m.ID == id })
}

var _ Repository = (*MemoryRepository)(nil)
