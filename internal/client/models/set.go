package models

// Flashcard is a single card of a set. ID is nil for cards not yet saved.
type Flashcard struct {
	ID           *int64 `json:"id,omitempty"`
	FrontContent string `json:"front_content"`
	BackContent  string `json:"back_content"`
}

// FlashcardSet is the full aggregate behind a Material of type set.
type FlashcardSet struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	IsPublic     bool         `json:"is_public"`
	Creator      string       `json:"creator"`
	Flashcards   []Flashcard  `json:"flashcards"`
	SharedWith   []SharedUser `json:"shared_with"`
	Upvotes      int          `json:"upvotes"`
	Downvotes    int          `json:"downvotes"`
	UserVote     VoteType     `json:"user_vote"`
	CommentsData CommentsData `json:"comments_data"`
}

// SetDraft is the editable content of a set sent on create and update.
// ParentID is only used on create.
type SetDraft struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	IsPublic    bool        `json:"is_public"`
	ParentID    *int64      `json:"parent_id"`
	Flashcards  []Flashcard `json:"flashcards"`
}

// NewSetDraft returns the content a freshly created set starts with.
func NewSetDraft(name string, parentID *int64) SetDraft {
	return SetDraft{
		Name:       name,
		ParentID:   CloneID(parentID),
		Flashcards: []Flashcard{{}},
	}
}

// DraftOf extracts the editable content of an aggregate.
func DraftOf(s FlashcardSet) SetDraft {
	return SetDraft{
		Name:        s.Name,
		Description: s.Description,
		IsPublic:    s.IsPublic,
		Flashcards:  append([]Flashcard(nil), s.Flashcards...),
	}
}
