package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
)

// CommentService operates on the discussion of the set open in SetService.
// Every operation confirms with the server before touching the thread.
type CommentService interface {
	TopLevel() ([]models.Comment, error)
	Replies(id int64) ([]models.Comment, error)
	Get(id int64) (models.Comment, bool)
	Err() *OperationError

	// Add posts a comment; parentID nil makes it top-level. Only top-level
	// comments accept replies.
	Add(ctx context.Context, text string, parentID *int64) (models.Comment, error)
	Edit(ctx context.Context, id int64, text string) (models.Comment, error)
	Delete(ctx context.Context, id int64) ([]int64, error)
	Vote(ctx context.Context, id int64, vote models.VoteType) (models.Comment, error)

	// CanModify reports whether the logged-in user wrote c.
	CanModify(c models.Comment) bool
}

type commentService struct {
	client client.Client
	sets   SetService
	auth   AuthService
	log    logging.Logger

	mu      sync.Mutex
	lastErr *OperationError
}

func NewCommentService(c client.Client, sets SetService, auth AuthService, log logging.Logger) CommentService {
	return &commentService{client: c, sets: sets, auth: auth, log: log.With("component", "comments")}
}

func (s *commentService) TopLevel() ([]models.Comment, error) {
	sess, err := s.sets.session()
	if err != nil {
		return nil, err
	}
	return sess.thread.TopLevel(), nil
}

func (s *commentService) Replies(id int64) ([]models.Comment, error) {
	sess, err := s.sets.session()
	if err != nil {
		return nil, err
	}
	return sess.thread.Replies(id), nil
}

func (s *commentService) Get(id int64) (models.Comment, bool) {
	sess, err := s.sets.session()
	if err != nil {
		return models.Comment{}, false
	}
	return sess.thread.Get(id)
}

func (s *commentService) Err() *OperationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *commentService) Add(ctx context.Context, text string, parentID *int64) (models.Comment, error) {
	s.clearErr()

	sess, err := s.sets.session()
	if err != nil {
		return models.Comment{}, s.fail(ctx, "add_comment", "", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, s.fail(ctx, "add_comment", "", common.ErrBlankText)
	}

	if parentID != nil {
		parent, ok := sess.thread.Get(*parentID)
		if !ok {
			return models.Comment{}, s.fail(ctx, "add_comment", "", common.ErrUnknownItem)
		}
		if !parent.IsTopLevel() {
			return models.Comment{}, s.fail(ctx, "add_comment", "", common.ErrReplyToReply)
		}
	}

	// Replies to one parent land in the order they were issued, however the
	// responses arrive.
	wait, release := sess.order.slot(threadOf(parentID))
	defer release()

	bctx, done := sess.bind(ctx)
	defer done()

	c, err := s.client.AddComment(bctx, sess.setID, text, parentID)
	wait()

	if !s.sets.isActive(sess) {
		return models.Comment{}, common.ErrStale
	}
	if err != nil {
		return models.Comment{}, s.fail(ctx, "add_comment", "Failed to add comment", err)
	}

	if c.ParentID == nil && parentID != nil {
		c.ParentID = models.CloneID(parentID)
	}
	if !sess.thread.Insert(c) {
		s.log.Debug(ctx, "reply dropped, parent gone", "id", c.ID, "parent_id", *c.ParentID)
	}
	return c, nil
}

// Edit replaces the text of a comment. An edit that leaves the trimmed text
// unchanged is a no-op.
func (s *commentService) Edit(ctx context.Context, id int64, text string) (models.Comment, error) {
	s.clearErr()

	sess, err := s.sets.session()
	if err != nil {
		return models.Comment{}, s.fail(ctx, "edit_comment", "", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, s.fail(ctx, "edit_comment", "", common.ErrBlankText)
	}
	cur, ok := sess.thread.Get(id)
	if !ok {
		return models.Comment{}, s.fail(ctx, "edit_comment", "", common.ErrUnknownItem)
	}
	if cur.Text == text {
		return cur, nil
	}

	bctx, done := sess.bind(ctx)
	defer done()

	c, err := s.client.EditComment(bctx, id, text)
	if !s.sets.isActive(sess) {
		return models.Comment{}, common.ErrStale
	}
	if err != nil {
		return models.Comment{}, s.fail(ctx, "edit_comment", "Failed to edit comment", err)
	}

	merged, err := sess.thread.Merge(c)
	if err != nil {
		// Deleted while the edit was in flight.
		return c, nil
	}
	return merged, nil
}

// Delete removes a comment with its replies once the server confirms.
func (s *commentService) Delete(ctx context.Context, id int64) ([]int64, error) {
	s.clearErr()

	sess, err := s.sets.session()
	if err != nil {
		return nil, s.fail(ctx, "delete_comment", "", err)
	}
	if _, ok := sess.thread.Get(id); !ok {
		return nil, s.fail(ctx, "delete_comment", "", common.ErrUnknownItem)
	}

	bctx, done := sess.bind(ctx)
	defer done()

	err = s.client.DeleteComment(bctx, id)
	if !s.sets.isActive(sess) {
		return nil, common.ErrStale
	}
	if err != nil {
		return nil, s.fail(ctx, "delete_comment", "Failed to delete comment", err)
	}

	removed, err := sess.thread.Remove(id)
	if err != nil {
		return []int64{}, nil
	}
	s.log.Info(ctx, "comment deleted", "id", id, "removed", len(removed))
	return removed, nil
}

func (s *commentService) Vote(ctx context.Context, id int64, vote models.VoteType) (models.Comment, error) {
	s.clearErr()

	sess, err := s.sets.session()
	if err != nil {
		return models.Comment{}, s.fail(ctx, "vote_comment", "", err)
	}
	if !vote.Valid() {
		return models.Comment{}, s.fail(ctx, "vote_comment", "", common.ErrInvalidVote)
	}
	if _, ok := sess.thread.Get(id); !ok {
		return models.Comment{}, s.fail(ctx, "vote_comment", "", common.ErrUnknownItem)
	}

	bctx, done := sess.bind(ctx)
	defer done()

	res, err := s.client.VoteComment(bctx, id, vote)
	if !s.sets.isActive(sess) {
		return models.Comment{}, common.ErrStale
	}
	if err != nil {
		return models.Comment{}, s.fail(ctx, "vote_comment", "Failed to vote", err)
	}

	c, err := sess.thread.ApplyVote(id, res)
	if err != nil {
		return models.Comment{}, s.fail(ctx, "vote_comment", "", common.ErrUnknownItem)
	}
	return c, nil
}

func (s *commentService) CanModify(c models.Comment) bool {
	return s.auth.CanModify(c.AuthorEmail)
}

func (s *commentService) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *commentService) fail(ctx context.Context, op, fallback string, err error) error {
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
