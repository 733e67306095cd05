// Package comments holds the normalized comment graph of the open material:
// a flat map by id plus the ordered list of top-level ids. Reply order lives
// in each parent's Replies slice, most recent first.
package comments

import (
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

var ErrNotFound = errors.New("comment not found")

type Thread struct {
	mu       sync.RWMutex
	comments map[int64]models.Comment
	topLevel []int64
}

func NewThread() *Thread {
	return &Thread{comments: make(map[int64]models.Comment)}
}

// Load replaces the whole graph with a server snapshot.
func (t *Thread) Load(data models.CommentsData) {
	comments := make(map[int64]models.Comment, len(data.Comments))
	for id, c := range data.Comments {
		comments[id] = c.Clone()
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.comments = comments
	t.topLevel = slices.Clone(data.TopLevelCommentIDs)
}

func (t *Thread) Get(id int64) (models.Comment, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c, ok := t.comments[id]
	if !ok {
		return models.Comment{}, false
	}
	return c.Clone(), true
}

func (t *Thread) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.comments)
}

// TopLevel returns the top-level comments in display order.
func (t *Thread) TopLevel() []models.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolve(t.topLevel)
}

// Replies returns the direct replies of id in display order.
func (t *Thread) Replies(id int64) []models.Comment {
	t.mu.RLock()
	defer t.mu.RUnlock()

	parent, ok := t.comments[id]
	if !ok {
		return []models.Comment{}
	}
	return t.resolve(parent.Replies)
}

// Insert adds a newly created comment at the front of its parent's replies,
// or of the top-level list. A reply whose parent is unknown is dropped and
// Insert reports false.
func (t *Thread) Insert(c models.Comment) bool {
	c = c.Clone()
	if c.Replies == nil {
		c.Replies = []int64{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.comments[c.ID]; exists {
		t.comments[c.ID] = t.merge(t.comments[c.ID], c)
		return true
	}

	if c.ParentID == nil {
		t.comments[c.ID] = c
		t.topLevel = slices.Insert(t.topLevel, 0, c.ID)
		return true
	}

	parent, ok := t.comments[*c.ParentID]
	if !ok {
		return false
	}
	parent.Replies = slices.Insert(slices.Clone(parent.Replies), 0, c.ID)
	t.comments[parent.ID] = parent
	t.comments[c.ID] = c
	return true
}

// Merge applies a server copy of an existing comment. Structural fields stay
// local: ParentID always, Replies when the update omits them.
func (t *Thread) Merge(update models.Comment) (models.Comment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur, ok := t.comments[update.ID]
	if !ok {
		return models.Comment{}, ErrNotFound
	}
	merged := t.merge(cur, update.Clone())
	t.comments[update.ID] = merged
	return merged.Clone(), nil
}

func (t *Thread) merge(cur, update models.Comment) models.Comment {
	update.ParentID = cur.ParentID
	if update.Replies == nil {
		update.Replies = cur.Replies
	}
	return update
}

// Remove deletes id and its whole reply subtree, then detaches id from its
// parent (or from the top-level list). It returns every removed id.
func (t *Thread) Remove(id int64) ([]int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	root, ok := t.comments[id]
	if !ok {
		return nil, ErrNotFound
	}

	var removed []int64
	seen := map[int64]bool{id: true}
	stack := slices.Clone(root.Replies)
	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if c, ok := t.comments[cur]; ok {
			stack = append(stack, c.Replies...)
			delete(t.comments, cur)
			removed = append(removed, cur)
		}
	}

	delete(t.comments, id)
	removed = append(removed, id)

	if root.ParentID == nil {
		t.topLevel = slices.DeleteFunc(slices.Clone(t.topLevel), func(v int64) bool { return v == id })
	} else if parent, ok := t.comments[*root.ParentID]; ok {
		parent.Replies = slices.DeleteFunc(slices.Clone(parent.Replies), func(v int64) bool { return v == id })
		t.comments[parent.ID] = parent
	}
	return removed, nil
}

// ApplyVote overwrites the tallies of id with the server's answer.
func (t *Thread) ApplyVote(id int64, v models.VoteResult) (models.Comment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.comments[id]
	if !ok {
		return models.Comment{}, ErrNotFound
	}
	c.Upvotes, c.Downvotes, c.UserVote = v.Upvotes, v.Downvotes, v.UserVote
	t.comments[id] = c
	return c.Clone(), nil
}

// Snapshot returns a deep copy of the graph.
func (t *Thread) Snapshot() models.CommentsData {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := models.CommentsData{
		Comments:           make(map[int64]models.Comment, len(t.comments)),
		TopLevelCommentIDs: slices.Clone(t.topLevel),
	}
	for id, c := range t.comments {
		out.Comments[id] = c.Clone()
	}
	if out.TopLevelCommentIDs == nil {
		out.TopLevelCommentIDs = []int64{}
	}
	return out
}

func (t *Thread) resolve(ids []int64) []models.Comment {
	out := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := t.comments[id]; ok {
			out = append(out, c.Clone())
		}
	}
	return out
}
