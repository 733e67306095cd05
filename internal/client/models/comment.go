package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// VoteType is the caller's vote on a votable resource. The zero value means
// no vote.
type VoteType string

const (
	VoteNone VoteType = ""
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
)

func (v VoteType) Valid() bool { return v == VoteUp || v == VoteDown }

// VoteResult is the authoritative vote tally echoed by the server.
type VoteResult struct {
	Upvotes   int      `json:"upvotes"`
	Downvotes int      `json:"downvotes"`
	UserVote  VoteType `json:"user_vote"`
}

// UnmarshalJSON maps a JSON null user_vote to VoteNone.
func (v *VoteType) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*v = VoteNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*v = VoteType(s)
	return nil
}

// Comment is a node of a per-material discussion. Replies holds the ids of
// direct replies, most recent first.
type Comment struct {
	ID          int64     `json:"id"`
	Text        string    `json:"text"`
	AuthorEmail string    `json:"author_email"`
	CreatedAt   Timestamp `json:"created_at"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	UserVote    VoteType  `json:"user_vote"`
	ParentID    *int64    `json:"parent_id"`
	Replies     []int64   `json:"replies"`
}

func (c Comment) IsTopLevel() bool { return c.ParentID == nil }

// Clone returns a copy that shares no slices or pointers with c.
func (c Comment) Clone() Comment {
	out := c
	out.ParentID = CloneID(c.ParentID)
	if c.Replies != nil {
		out.Replies = append([]int64(nil), c.Replies...)
	}
	return out
}

// CommentsData is the normalized comment graph of one material.
type CommentsData struct {
	Comments           map[int64]Comment `json:"comments"`
	TopLevelCommentIDs []int64           `json:"top_level_comment_ids"`
}

// Timestamp accepts RFC 3339 values as well as the zone-less ISO form the
// backend emits for naive datetimes (treated as UTC).
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
