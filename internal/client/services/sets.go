package services

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/events"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/client/repositories/comments"
	"github.com/dmitrijs2005/studyhub/internal/client/repositories/shares"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	"golang.org/x/sync/singleflight"
)

// SetView is a read-only snapshot of the open set. Comments and shares are
// served by CommentService and ShareService.
type SetView struct {
	ID          int64
	Name        string
	Description string
	IsPublic    bool
	Creator     string
	Flashcards  []models.Flashcard
	Upvotes     int
	Downvotes   int
	UserVote    models.VoteType
}

// SetService manages the flashcard-set viewer. Opening a set starts a
// session; closing it, or opening another one, ends the session and every
// response that belongs to it is discarded with common.ErrStale.
type SetService interface {
	Open(ctx context.Context, setID int64) (SetView, error)
	Close()
	Current() (SetView, bool)
	Err() *OperationError

	Vote(ctx context.Context, vote models.VoteType) (models.VoteResult, error)

	// Save creates a set when setID is nil, otherwise updates it.
	Save(ctx context.Context, setID *int64, draft models.SetDraft) (models.Material, error)
	Copy(ctx context.Context, setID int64, targetFolderID *int64) (models.Material, error)

	session() (*session, error)
	isActive(sess *session) bool
	record(err *OperationError)
}

// FolderLookup resolves copy targets against the loaded material tree.
type FolderLookup interface {
	Get(id int64) (models.Material, bool)
}

// session is the state owned by one open set.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	setID  int64

	mu   sync.Mutex
	view SetView

	thread *comments.Thread
	shares *shares.Overlay
	order  *sequencer
}

// bind derives a request context that is also canceled when the session
// ends.
func (s *session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *session) snapshot() SetView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view
	v.Flashcards = append([]models.Flashcard(nil), s.view.Flashcards...)
	return v
}

type setService struct {
	client  client.Client
	folders FolderLookup
	bus     *events.Bus
	log    logging.Logger
	loads  singleflight.Group

	mu      sync.Mutex
	current *session
	lastErr *OperationError
}

func NewSetService(c client.Client, folders FolderLookup, bus *events.Bus, log logging.Logger) SetService {
	return &setService{client: c, folders: folders, bus: bus, log: log.With("component", "sets")}
}

func (s *setService) Open(ctx context.Context, setID int64) (SetView, error) {
	sctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		ctx:    sctx,
		cancel: cancel,
		setID:  setID,
		thread: comments.NewThread(),
		shares: shares.NewOverlay(),
		order:  newSequencer(),
	}

	s.mu.Lock()
	if s.current != nil {
		s.current.cancel()
	}
	s.current = sess
	s.lastErr = nil
	s.mu.Unlock()

	bctx, done := sess.bind(ctx)
	defer done()

	// Concurrent loads of the same set share one request; each caller
	// still stops waiting when its own session ends.
	ch := s.loads.DoChan(strconv.FormatInt(setID, 10), func() (any, error) {
		return s.client.GetSet(context.WithoutCancel(bctx), setID)
	})

	var (
		set models.FlashcardSet
		err error
	)
	select {
	case <-bctx.Done():
		err = bctx.Err()
	case res := <-ch:
		err = res.Err
		if err == nil {
			set = res.Val.(models.FlashcardSet)
		}
	}

	if !s.isActive(sess) {
		return SetView{}, common.ErrStale
	}
	if err != nil {
		s.mu.Lock()
		if s.current == sess {
			s.current = nil
		}
		s.mu.Unlock()
		cancel()

		opErr := newOpError("open", "Failed to load set", err)
		if RequiresLogin(err) {
			s.log.Info(ctx, "set requires login", "set_id", setID)
		} else {
			s.log.Warn(ctx, "operation failed", "op", "open", "set_id", setID, "error", err)
		}
		s.record(opErr)
		return SetView{}, opErr
	}

	sess.mu.Lock()
	sess.view = SetView{
		ID:          set.ID,
		Name:        set.Name,
		Description: set.Description,
		IsPublic:    set.IsPublic,
		Creator:     set.Creator,
		Flashcards:  set.Flashcards,
		Upvotes:     set.Upvotes,
		Downvotes:   set.Downvotes,
		UserVote:    set.UserVote,
	}
	sess.mu.Unlock()
	sess.thread.Load(set.CommentsData)
	sess.shares.Load(set.SharedWith)

	s.log.Debug(ctx, "set opened", "set_id", setID, "comments", sess.thread.Len())
	return sess.snapshot(), nil
}

func (s *setService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.cancel()
		s.current = nil
	}
}

func (s *setService) Current() (SetView, bool) {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return SetView{}, false
	}
	return sess.snapshot(), true
}

func (s *setService) Err() *OperationError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *setService) record(err *OperationError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *setService) session() (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, common.ErrNoSession
	}
	return s.current, nil
}

func (s *setService) isActive(sess *session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == sess
}

// Vote sends the caller's vote on the open set and overwrites the counters
// with the server's answer. Voting the same way twice removes the vote on
// the server, which the echoed counters reflect.
func (s *setService) Vote(ctx context.Context, vote models.VoteType) (models.VoteResult, error) {
	sess, err := s.session()
	if err != nil {
		return models.VoteResult{}, s.fail(ctx, "vote", "", err)
	}
	if !vote.Valid() {
		return models.VoteResult{}, s.fail(ctx, "vote", "", common.ErrInvalidVote)
	}

	bctx, done := sess.bind(ctx)
	defer done()

	res, err := s.client.VoteMaterial(bctx, sess.setID, vote)
	if !s.isActive(sess) {
		return models.VoteResult{}, common.ErrStale
	}
	if err != nil {
		return models.VoteResult{}, s.fail(ctx, "vote", "Failed to vote", err)
	}

	sess.mu.Lock()
	sess.view.Upvotes, sess.view.Downvotes, sess.view.UserVote = res.Upvotes, res.Downvotes, res.UserVote
	sess.mu.Unlock()
	return res, nil
}

func (s *setService) Save(ctx context.Context, setID *int64, draft models.SetDraft) (models.Material, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if draft.Name == "" {
		return models.Material{}, s.fail(ctx, "save", "", common.ErrBlankName)
	}

	var (
		m   models.Material
		err error
	)
	if setID == nil {
		m, err = s.client.CreateSet(ctx, draft)
	} else {
		m, err = s.client.UpdateSet(ctx, *setID, draft)
	}
	if err != nil {
		return models.Material{}, s.fail(ctx, "save", "Failed to save set", err)
	}

	if sess, serr := s.session(); serr == nil && sess.setID == m.ID {
		sess.mu.Lock()
		sess.view.Name = draft.Name
		sess.view.Description = draft.Description
		sess.view.IsPublic = draft.IsPublic
		sess.view.Flashcards = append([]models.Flashcard(nil), draft.Flashcards...)
		sess.mu.Unlock()
	}

	s.bus.Publish(events.Event{Kind: events.SetSaved, Material: m})
	s.log.Info(ctx, "set saved", "id", m.ID, "created", setID == nil)
	return m, nil
}

// Copy duplicates a set into targetFolderID (nil = root). The copy is a new
// material with no shares; the open session is left untouched. A target
// that is not a loaded folder is refused with common.ErrInvalidTarget.
func (s *setService) Copy(ctx context.Context, setID int64, targetFolderID *int64) (models.Material, error) {
	if targetFolderID != nil {
		target, ok := s.folders.Get(*targetFolderID)
		if !ok || !target.IsFolder() {
			return models.Material{}, s.fail(ctx, "copy", "", common.ErrInvalidTarget)
		}
	}

	m, err := s.client.CopySet(ctx, setID, targetFolderID)
	if err != nil {
		return models.Material{}, s.fail(ctx, "copy", "Failed to copy set", err)
	}
	s.bus.Publish(events.Event{Kind: events.SetCopied, Material: m})
	s.log.Info(ctx, "set copied", "source_id", setID, "id", m.ID)
	return m, nil
}

func (s *setService) fail(ctx context.Context, op, fallback string, err error) error {
	opErr := newOpError(op, fallback, err)
	s.record(opErr)
	s.log.Warn(ctx, "operation failed", "op", op, "error", err)
	return opErr
}

// threadKey names one ordering queue of a comment thread: the top-level
// list, or the replies of one parent.
type threadKey struct {
	parent int64
	reply  bool
}

func threadOf(parentID *int64) threadKey {
	if parentID == nil {
		return threadKey{}
	}
	return threadKey{parent: *parentID, reply: true}
}

// sequencer hands out ordered slots per key. A holder waits for the slot
// issued before it, applies its result, then releases its own slot.
type sequencer struct {
	mu    sync.Mutex
	tails map[threadKey]chan struct{}
}

func newSequencer() *sequencer {
	return &sequencer{tails: make(map[threadKey]chan struct{})}
}

// slot reserves the next position for key. wait blocks until every earlier
// slot has been released; release must be called exactly once.
func (q *sequencer) slot(key threadKey) (wait func(), release func()) {
	q.mu.Lock()
	prev := q.tails[key]
	mine := make(chan struct{})
	q.tails[key] = mine
	q.mu.Unlock()

	wait = func() {
		if prev != nil {
			<-prev
		}
	}
	release = func() {
		q.mu.Lock()
		if q.tails[key] == mine {
			delete(q.tails, key)
		}
		q.mu.Unlock()
		close(mine)
	}
	return wait, release
}
