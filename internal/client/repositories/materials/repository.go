package materials

import (
	"errors"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

var ErrNotFound = errors.New("material not found")

// Repository describes the state transitions and queries of the tree.
type Repository interface {
	// Replace swaps the whole collection, keeping the given order.
	Replace(items []models.Material)

	All() []models.Material
	Get(id int64) (models.Material, bool)

	// Children returns the items whose parent is parentID (nil = root).
	// An unknown parent yields an empty slice.
	Children(parentID *int64) []models.Material

	// Prepend inserts m at the front, or replaces the node with the same id
	// in place. It fails with ErrNotFound when m.ParentID names a missing
	// folder.
	Prepend(m models.Material) error

	// Put replaces an existing node. ErrNotFound when id is gone.
	Put(m models.Material) error

	// SetName and SetParent update one field and return the previous value
	// so the caller can roll back.
	SetName(id int64, name string) (string, error)
	SetParent(id int64, parentID *int64) (*int64, error)

	// Remove deletes exactly the given ids and reports how many existed.
	Remove(ids []int64) int

	// Breadcrumb returns the path from the synthetic root to folderID.
	Breadcrumb(folderID *int64, rootName string) []models.Crumb

	// IsAncestor reports whether id is node itself or one of its ancestors.
	IsAncestor(id int64, node *int64) bool
}
