package materials

import (
	"testing"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func folder(id int64, name string, parent *int64) models.Material {
	return models.Material{ID: id, ItemType: models.ItemTypeFolder, Name: name, ParentID: parent}
}

func set(id int64, name string, parent *int64) models.Material {
	return models.Material{ID: id, ItemType: models.ItemTypeSet, Name: name, ParentID: parent}
}

// seed builds: Biology(1) > Cells(2) > Organelles(3) > Quiz(4); Chemistry(5) at root.
func seed(t *testing.T) *MemoryRepository {
	t.Helper()
	r := NewMemoryRepository()
	r.Replace([]models.Material{
		folder(1, "Biology", nil),
		folder(2, "Cells", models.IDPtr(1)),
		folder(3, "Organelles", models.IDPtr(2)),
		set(4, "Quiz", models.IDPtr(3)),
		folder(5, "Chemistry", nil),
	})
	return r
}

func ids(items []models.Material) []int64 {
	out := make([]int64, 0, len(items))
	for _, m := range items {
		out = append(out, m.ID)
	}
	return out
}

func TestChildren(t *testing.T) {
	r := seed(t)

	assert.Equal(t, []int64{1, 5}, ids(r.Children(nil)))
	assert.Equal(t, []int64{2}, ids(r.Children(models.IDPtr(1))))
	assert.Empty(t, r.Children(models.IDPtr(404)))
	assert.NotNil(t, r.Children(models.IDPtr(404)))
}

func TestPrepend_InsertsNewAndReplacesExisting(t *testing.T) {
	r := seed(t)

	require.NoError(t, r.Prepend(set(9, "New set", nil)))
	assert.Equal(t, []int64{9, 1, 5}, ids(r.Children(nil)))

	require.NoError(t, r.Prepend(set(9, "Renamed", models.IDPtr(5))))
	got, ok := r.Get(9)
	require.True(t, ok)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, []int64{1, 5}, ids(r.Children(nil)))
	assert.Equal(t, int64(9), r.All()[0].ID, "update keeps position")
}

func TestPrepend_MissingParent(t *testing.T) {
	r := seed(t)
	r.Remove([]int64{1, 2, 3, 4})

	err := r.Prepend(set(9, "Orphan", models.IDPtr(2)))
	assert.ErrorIs(t, err, ErrNotFound)
	_, ok := r.Get(9)
	assert.False(t, ok)
	assert.Equal(t, []int64{5}, ids(r.All()))
}

func TestPut(t *testing.T) {
	r := seed(t)

	require.NoError(t, r.Put(set(4, "Final quiz", models.IDPtr(5))))
	got, _ := r.Get(4)
	assert.Equal(t, set(4, "Final quiz", models.IDPtr(5)), got)
	assert.Equal(t, 5, len(r.All()))

	r.Remove([]int64{4})
	assert.ErrorIs(t, r.Put(set(4, "Final quiz", nil)), ErrNotFound)
	_, ok := r.Get(4)
	assert.False(t, ok, "put never resurrects a removed node")
}

func TestSetName_ReturnsPrevious(t *testing.T) {
	r := seed(t)

	prev, err := r.SetName(4, "Final quiz")
	require.NoError(t, err)
	assert.Equal(t, "Quiz", prev)

	got, _ := r.Get(4)
	assert.Equal(t, "Final quiz", got.Name)

	_, err = r.SetName(404, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetParent_ReturnsPrevious(t *testing.T) {
	r := seed(t)

	prev, err := r.SetParent(4, nil)
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, int64(3), *prev)

	got, _ := r.Get(4)
	assert.Nil(t, got.ParentID)

	_, err = r.SetParent(404, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemove_ExactSet(t *testing.T) {
	r := seed(t)

	n := r.Remove([]int64{2, 3, 4, 404})
	assert.Equal(t, 3, n)
	assert.Equal(t, []int64{1, 5}, ids(r.All()))
}

func TestGet_ReturnsCopy(t *testing.T) {
	r := seed(t)

	m, _ := r.Get(2)
	*m.ParentID = 99
	m.Name = "mutated"

	again, _ := r.Get(2)
	assert.Equal(t, "Cells", again.Name)
	assert.Equal(t, int64(1), *again.ParentID)
}

func TestBreadcrumb(t *testing.T) {
	r := seed(t)

	tests := []struct {
		name   string
		folder *int64
		want   []models.Crumb
	}{
		{
			name:   "root",
			folder: nil,
			want:   []models.Crumb{{Name: "Materials"}},
		},
		{
			name:   "nested",
			folder: models.IDPtr(3),
			want: []models.Crumb{
				{Name: "Materials"},
				{ID: models.IDPtr(1), Name: "Biology"},
				{ID: models.IDPtr(2), Name: "Cells"},
				{ID: models.IDPtr(3), Name: "Organelles"},
			},
		},
		{
			name:   "unknown folder",
			folder: models.IDPtr(404),
			want:   []models.Crumb{{Name: "Materials"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Breadcrumb(tt.folder, "Materials")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Breadcrumb mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBreadcrumb_StopsAtDanglingParent(t *testing.T) {
	r := NewMemoryRepository()
	r.Replace([]models.Material{
		folder(7, "Orphan", models.IDPtr(100)),
		folder(8, "Inner", models.IDPtr(7)),
	})

	got := r.Breadcrumb(models.IDPtr(8), "Materials")
	want := []models.Crumb{
		{Name: "Materials"},
		{ID: models.IDPtr(7), Name: "Orphan"},
		{ID: models.IDPtr(8), Name: "Inner"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Breadcrumb mismatch (-want +got):\n%s", diff)
	}
}

func TestBreadcrumb_TerminatesOnCorruptCycle(t *testing.T) {
	r := NewMemoryRepository()
	r.Replace([]models.Material{
		folder(1, "A", models.IDPtr(2)),
		folder(2, "B", models.IDPtr(1)),
	})

	got := r.Breadcrumb(models.IDPtr(1), "Materials")
	assert.Len(t, got, 3)
	assert.Equal(t, "A", got[len(got)-1].Name)
}

func TestIsAncestor(t *testing.T) {
	r := seed(t)

	assert.True(t, r.IsAncestor(1, models.IDPtr(3)), "grandparent")
	assert.True(t, r.IsAncestor(3, models.IDPtr(3)), "node itself")
	assert.False(t, r.IsAncestor(3, models.IDPtr(1)), "descendant is not an ancestor")
	assert.False(t, r.IsAncestor(5, models.IDPtr(4)))
	assert.False(t, r.IsAncestor(1, nil), "root has no ancestors")
	assert.False(t, r.IsAncestor(1, models.IDPtr(404)))
}
