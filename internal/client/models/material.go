// Package models defines the study-material types shared by the client
// stores, services and the REST transport.
package models

// ItemType classifies a Material node.
type ItemType string

const (
	ItemTypeFolder ItemType = "folder"
	ItemTypeSet    ItemType = "set"
	ItemTypeLink   ItemType = "link"
)

// Valid reports whether t is one of the known item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeFolder, ItemTypeSet, ItemTypeLink:
		return true
	}
	return false
}

// Material is a node in the folder hierarchy. A nil ParentID places the
// node at the root. LinkedMaterialID is only set for link items and points
// at the shared material the link stands for.
type Material struct {
	ID               int64    `json:"id"`
	ItemType         ItemType `json:"item_type"`
	Name             string   `json:"name"`
	ParentID         *int64   `json:"parent_id"`
	LinkedMaterialID *int64   `json:"linked_material_id,omitempty"`
}

func (m Material) IsFolder() bool { return m.ItemType == ItemTypeFolder }

// Clone returns a deep copy so callers never share pointer fields.
func (m Material) Clone() Material {
	c := m
	c.ParentID = CloneID(m.ParentID)
	c.LinkedMaterialID = CloneID(m.LinkedMaterialID)
	return c
}

// Crumb is one segment of a breadcrumb path. The synthetic root has a nil ID.
type Crumb struct {
	ID   *int64
	Name string
}

// IDPtr returns a pointer to a copy of id.
func IDPtr(id int64) *int64 {
	return &id
}

func CloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	return IDPtr(*id)
}

// SameID reports whether two nullable ids refer to the same node (nil == nil).
func SameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
