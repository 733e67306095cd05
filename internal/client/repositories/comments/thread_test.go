package comments

import (
	"testing"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id int64, text string, parent *int64) models.Comment {
	return models.Comment{ID: id, Text: text, AuthorEmail: "a@x.io", ParentID: parent}
}

func commentIDs(cs []models.Comment) []int64 {
	out := make([]int64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

// assertConsistent checks that no surviving list references a missing id and
// every reply is listed by its parent.
func assertConsistent(t *testing.T, th *Thread) {
	t.Helper()
	snap := th.Snapshot()
	for _, id := range snap.TopLevelCommentIDs {
		_, ok := snap.Comments[id]
		assert.True(t, ok, "top-level id %d dangles", id)
	}
	for id, c := range snap.Comments {
		for _, r := range c.Replies {
			_, ok := snap.Comments[r]
			assert.True(t, ok, "reply %d of %d dangles", r, id)
		}
		if c.ParentID != nil {
			parent, ok := snap.Comments[*c.ParentID]
			require.True(t, ok, "parent of %d missing", id)
			assert.Contains(t, parent.Replies, id)
		}
	}
}

func TestInsert_TopLevelAndReplies(t *testing.T) {
	th := NewThread()

	require.True(t, th.Insert(comment(1, "Hello", nil)))
	require.True(t, th.Insert(comment(3, "Second", nil)))
	require.True(t, th.Insert(comment(2, "Hi back", models.IDPtr(1))))
	require.True(t, th.Insert(comment(4, "Another", models.IDPtr(1))))

	assert.Equal(t, []int64{3, 1}, commentIDs(th.TopLevel()))
	assert.Equal(t, []int64{4, 2}, commentIDs(th.Replies(1)))

	c, ok := th.Get(4)
	require.True(t, ok)
	assert.Equal(t, int64(1), *c.ParentID)
	assertConsistent(t, th)
}

func TestInsert_OrphanReplyIsDropped(t *testing.T) {
	th := NewThread()

	assert.False(t, th.Insert(comment(9, "lost", models.IDPtr(42))))
	_, ok := th.Get(9)
	assert.False(t, ok)
	assert.Equal(t, 0, th.Len())
}

func TestInsert_SameIDTwiceDoesNotDuplicate(t *testing.T) {
	th := NewThread()
	th.Insert(comment(1, "Hello", nil))
	th.Insert(comment(1, "Hello again", nil))

	assert.Equal(t, []int64{1}, commentIDs(th.TopLevel()))
	c, _ := th.Get(1)
	assert.Equal(t, "Hello again", c.Text)
}

func TestMerge_PreservesStructure(t *testing.T) {
	th := NewThread()
	th.Insert(comment(1, "Hello", nil))
	th.Insert(comment(2, "Hi back", models.IDPtr(1)))

	got, err := th.Merge(models.Comment{ID: 1, Text: "Hello, edited", AuthorEmail: "a@x.io", Upvotes: 3})
	require.NoError(t, err)

	assert.Equal(t, "Hello, edited", got.Text)
	assert.Equal(t, 3, got.Upvotes)
	assert.Equal(t, []int64{2}, got.Replies, "replies kept when omitted")

	_, err = th.Merge(models.Comment{ID: 404})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMerge_UsesServerRepliesWhenPresent(t *testing.T) {
	th := NewThread()
	th.Insert(comment(1, "Hello", nil))
	th.Insert(comment(2, "Hi back", models.IDPtr(1)))

	got, err := th.Merge(models.Comment{ID: 1, Text: "x", Replies: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, got.Replies)
}

func TestRemove_CascadeScenario(t *testing.T) {
	th := NewThread()
	th.Insert(comment(1, "Hello", nil))
	th.Insert(comment(2, "Hi back", models.IDPtr(1)))

	removed, err := th.Remove(1)
	require.NoError(t, err)

	assert.ElementsMatch(t, []int64{1, 2}, removed)
	assert.Equal(t, 0, th.Len())
	assert.Empty(t, th.Snapshot().TopLevelCommentIDs)
}

func TestRemove_DeepSubtree(t *testing.T) {
	th := NewThread()
	th.Load(models.CommentsData{
		Comments: map[int64]models.Comment{
			1: {ID: 1, Replies: []int64{2, 3}},
			2: {ID: 2, ParentID: models.IDPtr(1), Replies: []int64{4}},
			3: {ID: 3, ParentID: models.IDPtr(1)},
			4: {ID: 4, ParentID: models.IDPtr(2)},
			5: {ID: 5},
		},
		TopLevelCommentIDs: []int64{5, 1},
	})

	removed, err := th.Remove(2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 4}, removed)
	assert.Equal(t, []int64{3}, commentIDs(th.Replies(1)))
	assertConsistent(t, th)

	removed, err = th.Remove(1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, removed)
	assert.Equal(t, []int64{5}, commentIDs(th.TopLevel()))
	assertConsistent(t, th)

	_, err = th.Remove(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApplyVote_OverwritesCounts(t *testing.T) {
	th := NewThread()
	th.Insert(models.Comment{ID: 1, Upvotes: 5, Downvotes: 2, UserVote: models.VoteUp})

	got, err := th.ApplyVote(1, models.VoteResult{Upvotes: 4, Downvotes: 2, UserVote: models.VoteNone})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Upvotes)
	assert.Equal(t, models.VoteNone, got.UserVote)

	_, err = th.ApplyVote(404, models.VoteResult{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshot_IsDetached(t *testing.T) {
	th := NewThread()
	th.Insert(comment(1, "Hello", nil))

	snap := th.Snapshot()
	snap.TopLevelCommentIDs[0] = 99
	c := snap.Comments[1]
	c.Text = "changed"

	assert.Equal(t, []int64{1}, commentIDs(th.TopLevel()))
	got, _ := th.Get(1)
	assert.Equal(t, "Hello", got.Text)
}
