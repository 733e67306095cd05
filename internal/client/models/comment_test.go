package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentsData_DecodeServerPayload(t *testing.T) {
	raw := `{
		"comments": {
			"1": {"id": 1, "text": "Hello", "author_email": "a@x.io", "created_at": "2024-03-01T10:00:00.123456",
			      "upvotes": 2, "downvotes": 0, "user_vote": null, "parent_id": null, "replies": [2]},
			"2": {"id": 2, "text": "Hi back", "author_email": "b@x.io", "created_at": "2024-03-01T10:05:00Z",
			      "upvotes": 0, "downvotes": 1, "user_vote": "downvote", "parent_id": 1, "replies": []}
		},
		"top_level_comment_ids": [1]
	}`

	var data CommentsData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))

	require.Len(t, data.Comments, 2)
	assert.Equal(t, []int64{1}, data.TopLevelCommentIDs)

	c1 := data.Comments[1]
	assert.Equal(t, VoteNone, c1.UserVote)
	assert.True(t, c1.IsTopLevel())
	assert.Equal(t, []int64{2}, c1.Replies)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 123456000, time.UTC), c1.CreatedAt.Time)

	c2 := data.Comments[2]
	assert.Equal(t, VoteDown, c2.UserVote)
	require.NotNil(t, c2.ParentID)
	assert.Equal(t, int64(1), *c2.ParentID)
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	err := json.Unmarshal([]byte(`"yesterday"`), &ts)
	require.Error(t, err)
}

func TestComment_CloneIsIndependent(t *testing.T) {
	c := Comment{ID: 1, ParentID: IDPtr(7), Replies: []int64{3, 2}}
	cp := c.Clone()

	cp.Replies[0] = 99
	*cp.ParentID = 8

	assert.Equal(t, []int64{3, 2}, c.Replies)
	assert.Equal(t, int64(7), *c.ParentID)
}

func TestSameID(t *testing.T) {
	tests := []struct {
		name string
		a, b *int64
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and value", nil, IDPtr(1), false},
		{"value and nil", IDPtr(1), nil, false},
		{"equal", IDPtr(4), IDPtr(4), true},
		{"different", IDPtr(4), IDPtr(5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameID(tt.a, tt.b))
		})
	}
}

func TestNewSetDraft(t *testing.T) {
	parent := IDPtr(3)
	d := NewSetDraft("New set", parent)
	*parent = 4

	assert.Equal(t, "New set", d.Name)
	require.NotNil(t, d.ParentID)
	assert.Equal(t, int64(3), *d.ParentID)
	assert.Len(t, d.Flashcards, 1)
}
