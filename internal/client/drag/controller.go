// Package drag turns a drag gesture over the material tree into a single
// validated move.
//
// A gesture starts on an item, hovers over candidate targets (CanDrop) and
// ends with one Drop or a Cancel. Only the first drop of a gesture reaches
// the tree; any later drop event for the same gesture is ignored.
package drag

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/dmitrijs2005/studyhub/internal/common"
	"github.com/dmitrijs2005/studyhub/internal/logging"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Tree is the part of the material store a drag needs.
type Tree interface {
	Get(id int64) (models.Material, bool)
	ValidateMove(id int64, parentID *int64) error
	Move(ctx context.Context, id int64, parentID *int64) error
}

// Gesture is one drag from start to drop.
type Gesture struct {
	ID             string
	ItemID         int64
	OriginParentID *int64
}

// Outcome is what a Drop did.
type Outcome int

const (
	// Ignored means no gesture was active, e.g. a repeated drop event.
	Ignored Outcome = iota
	// Rejected means the target was not a valid drop target; nothing was sent.
	Rejected
	// Unchanged means the item was dropped back where it started.
	Unchanged
	// Moved means the item was moved to the target.
	Moved
	// Failed means the move was sent and refused; the tree rolled it back.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Unchanged:
		return "unchanged"
	case Moved:
		return "moved"
	case Failed:
		return "failed"
	default:
		return "ignored"
	}
}

type Controller struct {
	tree Tree
	log  logging.Logger

	mu     sync.Mutex
	active *Gesture
}

func NewController(tree Tree, log logging.Logger) *Controller {
	return &Controller{tree: tree, log: log.With("component", "drag")}
}

// Start begins a gesture on itemID. A gesture already in progress is
// abandoned.
func (c *Controller) Start(itemID int64) (*Gesture, error) {
	m, ok := c.tree.Get(itemID)
	if !ok {
		return nil, common.ErrUnknownItem
	}
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("gesture id: %w", err)
	}

	g := &Gesture{ID: id, ItemID: itemID, OriginParentID: models.CloneID(m.ParentID)}

	c.mu.Lock()
	if c.active != nil {
		c.log.Debug(context.Background(), "gesture abandoned", "gesture", c.active.ID)
	}
	c.active = g
	c.mu.Unlock()
	return g, nil
}

// Active returns the gesture in progress.
func (c *Controller) Active() (Gesture, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Gesture{}, false
	}
	return *c.active, true
}

// CanDrop reports whether target accepts the dragged item. nil is the
// breadcrumb root and always accepts.
func (c *Controller) CanDrop(target *int64) bool {
	g, ok := c.Active()
	if !ok {
		return false
	}
	return c.tree.ValidateMove(g.ItemID, target) == nil
}

// ReturnsToOrigin reports whether dropping on target would leave the item
// where it started.
func (c *Controller) ReturnsToOrigin(target *int64) bool {
	g, ok := c.Active()
	return ok && models.SameID(g.OriginParentID, target)
}

// Drop ends the gesture on target. A valid target produces exactly one
// tree move; an invalid one ends the gesture with the validation error.
func (c *Controller) Drop(ctx context.Context, target *int64) (Outcome, error) {
	c.mu.Lock()
	g := c.active
	c.active = nil
	c.mu.Unlock()

	if g == nil {
		return Ignored, nil
	}
	if err := c.tree.ValidateMove(g.ItemID, target); err != nil {
		c.log.Debug(ctx, "drop rejected", "gesture", g.ID, "item", g.ItemID, "error", err)
		return Rejected, err
	}

	if err := c.tree.Move(ctx, g.ItemID, target); err != nil {
		return Failed, err
	}
	if models.SameID(g.OriginParentID, target) {
		return Unchanged, nil
	}
	c.log.Debug(ctx, "drop moved", "gesture", g.ID, "item", g.ItemID)
	return Moved, nil
}

func (c *Controller) Cancel() {
	c.mu.Lock()
	c.active = nil
	c.mu.Unlock()
}
