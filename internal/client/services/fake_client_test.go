package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/client"
	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

// fakeClient implements client.Client for service tests. Each endpoint is
// backed by an optional function; unset functions return zero values.
// Every call is recorded by name.
type fakeClient struct {
	client.Client

	mu    sync.Mutex
	calls []string
	token string

	me            func(ctx context.Context) (models.User, error)
	listMaterials func(ctx context.Context) ([]models.Material, error)
	createFolder  func(ctx context.Context, name string, parentID *int64) (models.Material, error)
	createSet     func(ctx context.Context, d models.SetDraft) (models.Material, error)
	rename        func(ctx context.Context, id int64, name string) (models.Material, error)
	move          func(ctx context.Context, id int64, parentID *int64) (models.Material, error)
	deleteMat     func(ctx context.Context, id int64) ([]int64, error)
	voteMaterial  func(ctx context.Context, id int64, v models.VoteType) (models.VoteResult, error)
	getSet        func(ctx context.Context, id int64) (models.FlashcardSet, error)
	updateSet     func(ctx context.Context, id int64, d models.SetDraft) (models.Material, error)
	copySet       func(ctx context.Context, id int64, target *int64) (models.Material, error)
	share         func(ctx context.Context, id int64, email string, p models.Permission) (models.SharedUser, error)
	unshare       func(ctx context.Context, id, userID int64) error
	updateShares  func(ctx context.Context, id int64, u []models.ShareUpdate) error
	pendingShares func(ctx context.Context) ([]models.PendingShare, error)
	acceptShare   func(ctx context.Context, id int64) (models.Material, error)
	rejectShare   func(ctx context.Context, id int64) error
	addComment    func(ctx context.Context, id int64, text string, parentID *int64) (models.Comment, error)
	editComment   func(ctx context.Context, id int64, text string) (models.Comment, error)
	deleteComment func(ctx context.Context, id int64) error
	voteComment   func(ctx context.Context, id int64, v models.VoteType) (models.VoteResult, error)
}

func (f *fakeClient) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeClient) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeClient) Me(ctx context.Context) (models.User, error) {
	f.record("me")
	if f.me == nil {
		return models.User{}, nil
	}
	return f.me(ctx)
}

func (f *fakeClient) ListMaterials(ctx context.Context) ([]models.Material, error) {
	f.record("list_materials")
	if f.listMaterials == nil {
		return nil, nil
	}
	return f.listMaterials(ctx)
}

func (f *fakeClient) CreateFolder(ctx context.Context, name string, parentID *int64) (models.Material, error) {
	f.record("create_folder %s", name)
	if f.createFolder == nil {
		return models.Material{}, nil
	}
	return f.createFolder(ctx, name, parentID)
}

func (f *fakeClient) CreateSet(ctx context.Context, d models.SetDraft) (models.Material, error) {
	f.record("create_set %s", d.Name)
	if f.createSet == nil {
		return models.Material{}, nil
	}
	return f.createSet(ctx, d)
}

func (f *fakeClient) RenameMaterial(ctx context.Context, id int64, name string) (models.Material, error) {
	f.record("rename %d %s", id, name)
	if f.rename == nil {
		return models.Material{}, nil
	}
	return f.rename(ctx, id, name)
}

func (f *fakeClient) MoveMaterial(ctx context.Context, id int64, parentID *int64) (models.Material, error) {
	f.record("move %d", id)
	if f.move == nil {
		return models.Material{}, nil
	}
	return f.move(ctx, id, parentID)
}

func (f *fakeClient) DeleteMaterial(ctx context.Context, id int64) ([]int64, error) {
	f.record("delete %d", id)
	if f.deleteMat == nil {
		return nil, nil
	}
	return f.deleteMat(ctx, id)
}

func (f *fakeClient) VoteMaterial(ctx context.Context, id int64, v models.VoteType) (models.VoteResult, error) {
	f.record("vote_material %d %s", id, v)
	if f.voteMaterial == nil {
		return models.VoteResult{}, nil
	}
	return f.voteMaterial(ctx, id, v)
}

func (f *fakeClient) GetSet(ctx context.Context, id int64) (models.FlashcardSet, error) {
	f.record("get_set %d", id)
	if f.getSet == nil {
		return models.FlashcardSet{ID: id}, nil
	}
	return f.getSet(ctx, id)
}

func (f *fakeClient) UpdateSet(ctx context.Context, id int64, d models.SetDraft) (models.Material, error) {
	f.record("update_set %d", id)
	if f.updateSet == nil {
		return models.Material{}, nil
	}
	return f.updateSet(ctx, id, d)
}

func (f *fakeClient) CopySet(ctx context.Context, id int64, target *int64) (models.Material, error) {
	f.record("copy_set %d", id)
	if f.copySet == nil {
		return models.Material{}, nil
	}
	return f.copySet(ctx, id, target)
}

func (f *fakeClient) Share(ctx context.Context, id int64, email string, p models.Permission) (models.SharedUser, error) {
	f.record("share %d %s %s", id, email, p)
	if f.share == nil {
		return models.SharedUser{}, nil
	}
	return f.share(ctx, id, email, p)
}

func (f *fakeClient) Unshare(ctx context.Context, id, userID int64) error {
	f.record("unshare %d %d", id, userID)
	if f.unshare == nil {
		return nil
	}
	return f.unshare(ctx, id, userID)
}

func (f *fakeClient) UpdateShares(ctx context.Context, id int64, u []models.ShareUpdate) error {
	f.record("update_shares %d %d", id, len(u))
	if f.updateShares == nil {
		return nil
	}
	return f.updateShares(ctx, id, u)
}

func (f *fakeClient) PendingShares(ctx context.Context) ([]models.PendingShare, error) {
	f.record("pending_shares")
	if f.pendingShares == nil {
		return nil, nil
	}
	return f.pendingShares(ctx)
}

func (f *fakeClient) AcceptShare(ctx context.Context, id int64) (models.Material, error) {
	f.record("accept_share %d", id)
	if f.acceptShare == nil {
		return models.Material{}, nil
	}
	return f.acceptShare(ctx, id)
}

func (f *fakeClient) RejectShare(ctx context.Context, id int64) error {
	f.record("reject_share %d", id)
	if f.rejectShare == nil {
		return nil
	}
	return f.rejectShare(ctx, id)
}

func (f *fakeClient) AddComment(ctx context.Context, id int64, text string, parentID *int64) (models.Comment, error) {
	f.record("add_comment %d %s", id, text)
	if f.addComment == nil {
		return models.Comment{}, nil
	}
	return f.addComment(ctx, id, text, parentID)
}

func (f *fakeClient) EditComment(ctx context.Context, id int64, text string) (models.Comment, error) {
	f.record("edit_comment %d %s", id, text)
	if f.editComment == nil {
		return models.Comment{}, nil
	}
	return f.editComment(ctx, id, text)
}

func (f *fakeClient) DeleteComment(ctx context.Context, id int64) error {
	f.record("delete_comment %d", id)
	if f.deleteComment == nil {
		return nil
	}
	return f.deleteComment(ctx, id)
}

func (f *fakeClient) VoteComment(ctx context.Context, id int64, v models.VoteType) (models.VoteResult, error) {
	f.record("vote_comment %d %s", id, v)
	if f.voteComment == nil {
		return models.VoteResult{}, nil
	}
	return f.voteComment(ctx, id, v)
}
