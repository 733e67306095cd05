package client

import (
	"context"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

// Client is the contract with the remote authority. Every method maps to a
// single REST call; implementations must honor ctx cancellation.
type Client interface {
	Close() error
	SetToken(token string)
	Me(ctx context.Context) (models.User, error)

	ListMaterials(ctx context.Context) ([]models.Material, error)
	CreateFolder(ctx context.Context, name string, parentID *int64) (models.Material, error)
	RenameMaterial(ctx context.Context, id int64, name string) (models.Material, error)
	MoveMaterial(ctx context.Context, id int64, parentID *int64) (models.Material, error)
	DeleteMaterial(ctx context.Context, id int64) ([]int64, error)
	VoteMaterial(ctx context.Context, id int64, vote models.VoteType) (models.VoteResult, error)

	GetSet(ctx context.Context, id int64) (models.FlashcardSet, error)
	CreateSet(ctx context.Context, draft models.SetDraft) (models.Material, error)
	UpdateSet(ctx context.Context, id int64, draft models.SetDraft) (models.Material, error)
	CopySet(ctx context.Context, id int64, targetFolderID *int64) (models.Material, error)

	Share(ctx context.Context, materialID int64, email string, perm models.Permission) (models.SharedUser, error)
	Unshare(ctx context.Context, materialID, userID int64) error
	UpdateShares(ctx context.Context, materialID int64, updates []models.ShareUpdate) error
	PendingShares(ctx context.Context) ([]models.PendingShare, error)
	AcceptShare(ctx context.Context, shareID int64) (models.Material, error)
	RejectShare(ctx context.Context, shareID int64) error

	AddComment(ctx context.Context, materialID int64, text string, parentID *int64) (models.Comment, error)
	EditComment(ctx context.Context, id int64, text string) (models.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	VoteComment(ctx context.Context, id int64, vote models.VoteType) (models.VoteResult, error)
}
