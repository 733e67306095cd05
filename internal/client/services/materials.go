package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/events"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/client/repositories/materials"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	"github.com/google/uuid"
)

// ItemState is the client-side lifecycle state of a material.
type ItemState string

const (
	StateAbsent        ItemState = "absent"
	StatePresent       ItemState = "present"
	StatePendingRename ItemState = "pending-rename"
	StatePendingMove   ItemState = "pending-move"
	StatePendingDelete ItemState = "pending-delete"
)

// PendingCreate is a creation request that has not been answered yet.
type PendingCreate struct {
	Key      string
	Kind     models.ItemType
	Name     string
	ParentID *int64
}

// MaterialService owns the material tree.
//
// Policy per operation:
//   - Rename and Move apply locally first and roll back on failure.
//   - Create and Delete change local state only after the server confirms.
//
// Only one mutation per item may be in flight; a second one fails with
// common.ErrBusy.
type MaterialService interface {
	Load(ctx context.Context) error
	Reset()
	Status() Status
	Err() *OperationError

	ListChildren(parentID *int64) []models.Material
	Get(id int64) (models.Material, bool)
	Breadcrumb(folderID *int64) []models.Crumb
	ItemState(id int64) ItemState
	PendingCreates() []PendingCreate

	Create(ctx context.Context, kind models.ItemType, name string, parentID *int64) (models.Material, error)
	Rename(ctx context.Context, id int64, name string) error
	Move(ctx context.Context, id int64, parentID *int64) error
	Delete(ctx context.Context, id int64) ([]int64, error)

	// ValidateMove runs the local move checks without changing anything.
	ValidateMove(id int64, parentID *int64) error
}

type materialService struct {
	client   client.Client
	repo     materials.Repository
	bus      *events.Bus
	log      logging.Logger
	rootName string

	mu       sync.Mutex
	status   Status
	lastErr  *OperationError
	inflight map[int64]ItemState
	creates  map[string]PendingCreate
}

// NewMaterialService builds the tree service and subscribes it to the
// events that insert materials created elsewhere (saved sets, copies,
// accepted shares).
func NewMaterialService(c client.Client, repo materials.Repository, bus *events.Bus, log logging.Logger, rootName string) MaterialService {
	s := &materialService{
		client:   c,
		repo:     repo,
		bus:      bus,
		log:      log.With("component", "materials"),
		rootName: rootName,
		status:   StatusIdle,
		inflight: make(map[int64]ItemState),
		creates:  make(map[string]PendingCreate),
	}
	for _, kind := range []events.Kind{events.SetSaved, events.SetCopied, events.ShareAccepted} {
		bus.Subscribe(kind, s.onMaterialEvent)
	}
	return s
}

// onMaterialEvent folds results of other services into the tree. A known
// node only takes the new name; unknown ones are inserted when complete.
func (s *materialService) onMaterialEvent(e events.Event) {
	ctx := context.Background()
	m := e.Material

	if _, ok := s.repo.Get(m.ID); ok {
		if m.Name != "" {
			_, _ = s.repo.SetName(m.ID, m.Name)
		}
		s.log.Debug(ctx, "material updated", "event", e.Kind, "id", m.ID)
		return
	}
	if !m.ItemType.Valid() {
		s.log.Debug(ctx, "incomplete material ignored", "event", e.Kind, "id", m.ID)
		return
	}
	if err := s.repo.Prepend(m); err != nil {
		s.log.Debug(ctx, "material dropped, parent is gone", "event", e.Kind, "id", m.ID)
		return
	}
	s.log.Debug(ctx, "material added", "event", e.Kind, "id", m.ID)
}

func (s *materialService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.status = StatusLoading
	s.lastErr = nil
	s.mu.Unlock()

	items, err := s.client.ListMaterials(ctx)
	if err != nil {
		s.mu.Lock()
		s.status = StatusFailed
		s.mu.Unlock()
		return s.fail(ctx, "load", "Failed to load materials", 0, err)
	}

	s.repo.Replace(items)

	s.mu.Lock()
	s.status = StatusSucceeded
	s.mu.Unlock()
	return nil
}

// Reset forgets the loaded tree, e.g. on logout.
func (s *materialService) Reset() {
	s.repo.Replace(nil)
	s.mu.Lock()
	s.status = StatusIdle
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *materialService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *materialService) Err() *OperationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *materialService) ListChildren(parentID *int64) []models.Material {
	return s.repo.Children(parentID)
}

func (s *materialService) Get(id int64) (models.Material, bool) {
	return s.repo.Get(id)
}

func (s *materialService) Breadcrumb(folderID *int64) []models.Crumb {
	return s.repo.Breadcrumb(folderID, s.rootName)
}

func (s *materialService) ItemState(id int64) ItemState {
	if _, ok := s.repo.Get(id); !ok {
		return StateAbsent
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.inflight[id]; ok {
		return st
	}
	return StatePresent
}

func (s *materialService) PendingCreates() []PendingCreate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PendingCreate, 0, len(s.creates))
	for _, p := range s.creates {
		out = append(out, p)
	}
	return out
}

func (s *materialService) Create(ctx context.Context, kind models.ItemType, name string, parentID *int64) (models.Material, error) {
	s.clearErr()

	name = strings.TrimSpace(name)
	if name == "" {
		return models.Material{}, s.fail(ctx, "create", "", 0, common.ErrBlankName)
	}
	if kind != models.ItemTypeFolder && kind != models.ItemTypeSet {
		return models.Material{}, s.fail(ctx, "create", "", 0, common.ErrInvalidKind)
	}
	if parentID != nil {
		parent, ok := s.repo.Get(*parentID)
		if !ok || !parent.IsFolder() {
			return models.Material{}, s.fail(ctx, "create", "", 0, common.ErrInvalidTarget)
		}
	}

	key := uuid.NewString()
	s.mu.Lock()
	s.creates[key] = PendingCreate{Key: key, Kind: kind, Name: name, ParentID: models.CloneID(parentID)}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.creates, key)
		s.mu.Unlock()
	}()

	var (
		m   models.Material
		err error
	)
	if kind == models.ItemTypeFolder {
		m, err = s.client.CreateFolder(ctx, name, parentID)
	} else {
		m, err = s.client.CreateSet(ctx, models.NewSetDraft(name, parentID))
	}
	if err != nil {
		return models.Material{}, s.fail(ctx, "create", fmt.Sprintf("Failed to create %s", kind), 0, err)
	}

	if err := s.repo.Prepend(m); err != nil {
		s.log.Info(ctx, "created material dropped, parent is gone", "id", m.ID)
		return m, nil
	}
	s.log.Info(ctx, "material created", "id", m.ID, "kind", m.ItemType)
	return m, nil
}

func (s *materialService) Rename(ctx context.Context, id int64, name string) error {
	s.clearErr()

	name = strings.TrimSpace(name)
	if name == "" {
		return s.fail(ctx, "rename", "", id, common.ErrBlankName)
	}
	cur, ok := s.repo.Get(id)
	if !ok {
		return s.fail(ctx, "rename", "", id, common.ErrUnknownItem)
	}
	if cur.Name == name {
		return nil
	}
	if err := s.begin(id, StatePendingRename); err != nil {
		return s.fail(ctx, "rename", "", id, err)
	}
	defer s.end(id)

	prev, err := s.repo.SetName(id, name)
	if err != nil {
		return s.fail(ctx, "rename", "", id, common.ErrUnknownItem)
	}

	updated, err := s.client.RenameMaterial(ctx, id, name)
	if err != nil {
		if _, rbErr := s.repo.SetName(id, prev); rbErr == nil {
			s.log.Info(ctx, "rename rolled back", "op", "rename", "id", id, "rollback", true)
		}
		return s.fail(ctx, "rename", "Failed to rename item", id, err)
	}

	if updated.Name != "" {
		name = updated.Name
	}
	if _, err := s.repo.SetName(id, name); err != nil {
		s.log.Info(ctx, "rename result dropped, item is gone", "id", id)
	}
	return nil
}

func (s *materialService) ValidateMove(id int64, parentID *int64) error {
	if parentID != nil && *parentID == id {
		return common.ErrSelfParent
	}
	if _, ok := s.repo.Get(id); !ok {
		return common.ErrUnknownItem
	}
	if parentID == nil {
		return nil
	}
	target, ok := s.repo.Get(*parentID)
	if !ok || !target.IsFolder() {
		return common.ErrInvalidTarget
	}
	if s.repo.IsAncestor(id, parentID) {
		return common.ErrCycle
	}
	return nil
}

func (s *materialService) Move(ctx context.Context, id int64, parentID *int64) error {
	s.clearErr()

	if err := s.ValidateMove(id, parentID); err != nil {
		return s.fail(ctx, "move", "", id, err)
	}
	cur, _ := s.repo.Get(id)
	if models.SameID(cur.ParentID, parentID) {
		return nil
	}
	if err := s.begin(id, StatePendingMove); err != nil {
		return s.fail(ctx, "move", "", id, err)
	}
	defer s.end(id)

	prev, err := s.repo.SetParent(id, parentID)
	if err != nil {
		return s.fail(ctx, "move", "", id, common.ErrUnknownItem)
	}

	updated, err := s.client.MoveMaterial(ctx, id, parentID)
	if err != nil {
		if _, rbErr := s.repo.SetParent(id, prev); rbErr == nil {
			s.log.Info(ctx, "move rolled back", "op", "move", "id", id, "rollback", true)
		}
		return s.fail(ctx, "move", "Failed to move item", id, err)
	}

	if updated.ID == id && updated.ItemType.Valid() {
		err = s.repo.Put(updated)
	} else {
		_, err = s.repo.SetParent(id, parentID)
	}
	if err != nil {
		s.log.Info(ctx, "move result dropped, item is gone", "id", id)
	}
	return nil
}

func (s *materialService) Delete(ctx context.Context, id int64) ([]int64, error) {
	s.clearErr()

	if _, ok := s.repo.Get(id); !ok {
		return nil, s.fail(ctx, "delete", "", id, common.ErrUnknownItem)
	}
	if err := s.begin(id, StatePendingDelete); err != nil {
		return nil, s.fail(ctx, "delete", "", id, err)
	}
	defer s.end(id)

	ids, err := s.client.DeleteMaterial(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, "delete", "Failed to delete item", id, err)
	}

	n := s.repo.Remove(ids)
	s.log.Info(ctx, "materials deleted", "id", id, "requested", len(ids), "removed", n)
	s.bus.Publish(events.Event{Kind: events.MaterialsDeleted, IDs: ids})
	return ids, nil
}

func (s *materialService) begin(id int64, st ItemState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return common.ErrBusy
	}
	s.inflight[id] = st
	return nil
}

func (s *materialService) end(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, id)
}

func (s *materialService) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *materialService) fail(ctx context.Context, op, fallback string, id int64, err error) error {
	opErr := newOpError(op, fallback, err)
	s.mu.Lock()
	s.lastErr = opErr
	s.mu.Unlock()

	if errors.Is(err, common.ErrValidation) {
		s.log.Debug(ctx, "rejected", "op", op, "id", id, "error", err)
	} else {
		s.log.Warn(ctx, "operation failed", "op", op, "id", id, "error", err)
	}
	return opErr
}
