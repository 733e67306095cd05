package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/events"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/client/repositories/shares"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
)

// ShareService manages who can access the open set, plus the inbox of
// shares offered to the caller.
//
// Permission edits are staged locally and sent as one batch by
// SavePermissions; the list shown as saved only changes once the server
// accepts the batch. Adding and removing a user take effect immediately.
type ShareService interface {
	OpenPanel() error
	Shared() ([]models.SharedUser, error)
	Staged() ([]models.SharedUser, error)
	Stage(userID int64, perm models.Permission) error
	HasPendingChanges() bool
	SavePermissions(ctx context.Context) error

	AddShare(ctx context.Context, email string, perm models.Permission) (models.SharedUser, error)
	RemoveShare(ctx context.Context, userID int64) error

	Pending(ctx context.Context) ([]models.PendingShare, error)
	Accept(ctx context.Context, shareID int64) (models.Material, error)
	Reject(ctx context.Context, shareID int64) error

	Err() *OperationError
}

type shareService struct {
	client client.Client
	sets   SetService
	bus    *events.Bus
	log    logging.Logger

	mu      sync.Mutex
	saving  bool
	lastErr *OperationError
}

func NewShareService(c client.Client, sets SetService, bus *events.Bus, log logging.Logger) ShareService {
	return &shareService{client: c, sets: sets, bus: bus, log: log.With("component", "shares")}
}

func (s *shareService) overlay() (*session, *shares.Overlay, error) {
	sess, err := s.sets.session()
	if err != nil {
		return nil, nil, err
	}
	return sess, sess.shares, nil
}

// OpenPanel starts an edit round: staged permissions are reset to the saved
// ones.
func (s *shareService) OpenPanel() error {
	_, o, err := s.overlay()
	if err != nil {
		return s.fail(context.Background(), "share_panel", "", err)
	}
	o.Reset()
	return nil
}

func (s *shareService) Shared() ([]models.SharedUser, error) {
	_, o, err := s.overlay()
	if err != nil {
		return nil, err
	}
	return o.Authoritative(), nil
}

func (s *shareService) Staged() ([]models.SharedUser, error) {
	_, o, err := s.overlay()
	if err != nil {
		return nil, err
	}
	return o.Staged(), nil
}

func (s *shareService) Stage(userID int64, perm models.Permission) error {
	s.clearErr()

	_, o, err := s.overlay()
	if err != nil {
		return s.fail(context.Background(), "stage", "", err)
	}
	if !perm.Valid() {
		return s.fail(context.Background(), "stage", "", common.ErrInvalidPerm)
	}
	if err := o.Stage(userID, perm); err != nil {
		return s.fail(context.Background(), "stage", "", common.ErrUnknownItem)
	}
	return nil
}

func (s *shareService) HasPendingChanges() bool {
	_, o, err := s.overlay()
	if err != nil {
		return false
	}
	return o.HasPendingChanges()
}

// SavePermissions sends the staged changes that differ from the saved list.
// Nothing is sent when there are none.
func (s *shareService) SavePermissions(ctx context.Context) error {
	s.clearErr()

	sess, o, err := s.overlay()
	if err != nil {
		return s.fail(ctx, "save_permissions", "", err)
	}
	updates := o.Pending()
	if len(updates) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return s.fail(ctx, "save_permissions", "", common.ErrBusy)
	}
	s.saving = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	bctx, done := sess.bind(ctx)
	defer done()

	err = s.client.UpdateShares(bctx, sess.setID, updates)
	if !s.sets.isActive(sess) {
		return common.ErrStale
	}
	if err != nil {
		return s.fail(ctx, "save_permissions", "Failed to update permissions", err)
	}

	o.Commit(updates)
	s.log.Info(ctx, "permissions saved", "set_id", sess.setID, "updates", len(updates))
	return nil
}

func (s *shareService) AddShare(ctx context.Context, email string, perm models.Permission) (models.SharedUser, error) {
	s.clearErr()

	sess, o, err := s.overlay()
	if err != nil {
		return models.SharedUser{}, s.fail(ctx, "share", "", err)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return models.SharedUser{}, s.fail(ctx, "share", "", common.ErrBlankEmail)
	}
	if perm == "" {
		perm = models.PermissionViewer
	}
	if !perm.Valid() {
		return models.SharedUser{}, s.fail(ctx, "share", "", common.ErrInvalidPerm)
	}

	bctx, done := sess.bind(ctx)
	defer done()

	u, err := s.client.Share(bctx, sess.setID, email, perm)
	if !s.sets.isActive(sess) {
		return models.SharedUser{}, common.ErrStale
	}
	if err != nil {
		return models.SharedUser{}, s.fail(ctx, "share", "Failed to share", err)
	}

	o.Append(u)
	s.log.Info(ctx, "shared", "set_id", sess.setID, "user_id", u.UserID, "permission", u.Permission)
	return u, nil
}

func (s *shareService) RemoveShare(ctx context.Context, userID int64) error {
	s.clearErr()

	sess, o, err := s.overlay()
	if err != nil {
		return s.fail(ctx, "unshare", "", err)
	}

	bctx, done := sess.bind(ctx)
	defer done()

	err = s.client.Unshare(bctx, sess.setID, userID)
	if !s.sets.isActive(sess) {
		return common.ErrStale
	}
	if err != nil {
		return s.fail(ctx, "unshare", "Failed to remove user", err)
	}

	o.Remove(userID)
	return nil
}

func (s *shareService) Pending(ctx context.Context) ([]models.PendingShare, error) {
	s.clearErr()

	list, err := s.client.PendingShares(ctx)
	if err != nil {
		return nil, s.fail(ctx, "pending_shares", "Failed to load shared items", err)
	}
	if list == nil {
		list = []models.PendingShare{}
	}
	return list, nil
}

// Accept takes an offered share. The server answers with a link material,
// which is published so the tree picks it up.
func (s *shareService) Accept(ctx context.Context, shareID int64) (models.Material, error) {
	s.clearErr()

	m, err := s.client.AcceptShare(ctx, shareID)
	if err != nil {
		return models.Material{}, s.fail(ctx, "accept_share", "Failed to accept share", err)
	}
	s.bus.Publish(events.Event{Kind: events.ShareAccepted, Material: m})
	s.log.Info(ctx, "share accepted", "share_id", shareID, "id", m.ID)
	return m, nil
}

func (s *shareService) Reject(ctx context.Context, shareID int64) error {
	s.clearErr()

	if err := s.client.RejectShare(ctx, shareID); err != nil {
		return s.fail(ctx, "reject_share", "Failed to reject share", err)
	}
	return nil
}

func (s *shareService) Err() *OperationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *shareService) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *shareService) fail(ctx context.Context, op, fallback string, err error) error {
	opErr := newOpError(op, fallback, err)
	s.mu.Lock()
	s.lastErr = opErr
	s.mu.Unlock()

	if errors.Is(err, common.ErrValidation) || errors.Is(err, common.ErrNoSession) {
		s.log.Debug(ctx, "rejected", "op", op, "error", err)
	} else {
		s.log.Warn(ctx, "operation failed", "op", op, "error", err)
	}
	return opErr
}
