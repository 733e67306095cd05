// Package shares keeps the share list of the open material in two copies:
// the authoritative list last confirmed by the server and a staged copy the
// user edits before saving permission changes as one batch.
package shares

import (
	"errors"
	"slices"
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

var ErrNotFound = errors.New("user is not in the share list")

type Overlay struct {
	mu            sync.RWMutex
	authoritative []models.SharedUser
	staged        []models.SharedUser
}

func NewOverlay() *Overlay {
	return &Overlay{}
}

// Load installs a server list and resets the staged copy to it.
func (o *Overlay) Load(users []models.SharedUser) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.authoritative = slices.Clone(users)
	o.staged = slices.Clone(users)
}

// Reset discards staged edits.
func (o *Overlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = slices.Clone(o.authoritative)
}

func (o *Overlay) Authoritative() []models.SharedUser {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return nonNil(slices.Clone(o.authoritative))
}

func (o *Overlay) Staged() []models.SharedUser {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return nonNil(slices.Clone(o.staged))
}

// Stage records a permission edit for userID without touching the
// authoritative list.
func (o *Overlay) Stage(userID int64, perm models.Permission) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	i := indexOf(o.staged, userID)
	if i < 0 {
		return ErrNotFound
	}
	o.staged[i].Permission = perm
	return nil
}

// Pending lists staged permissions that differ from the authoritative ones,
// in staged order.
func (o *Overlay) Pending() []models.ShareUpdate {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]models.ShareUpdate, 0)
	for _, s := range o.staged {
		i := indexOf(o.authoritative, s.UserID)
		if i >= 0 && o.authoritative[i].Permission != s.Permission {
			out = append(out, models.ShareUpdate{UserID: s.UserID, Permission: s.Permission})
		}
	}
	return out
}

func (o *Overlay) HasPendingChanges() bool {
	return len(o.Pending()) > 0
}

// Commit applies confirmed updates to the authoritative list.
func (o *Overlay) Commit(updates []models.ShareUpdate) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, u := range updates {
		if i := indexOf(o.authoritative, u.UserID); i >= 0 {
			o.authoritative[i].Permission = u.Permission
		}
		if i := indexOf(o.staged, u.UserID); i >= 0 {
			o.staged[i].Permission = u.Permission
		}
	}
}

// Append adds a confirmed share to both copies. An existing entry for the
// same user is replaced so a user is never listed twice.
func (o *Overlay) Append(u models.SharedUser) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.authoritative = upsert(o.authoritative, u)
	o.staged = upsert(o.staged, u)
}

// Remove drops userID from both copies and reports whether it was listed.
func (o *Overlay) Remove(userID int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	found := indexOf(o.authoritative, userID) >= 0
	match := func(s models.SharedUser) bool { return s.UserID == userID }
	o.authoritative = slices.DeleteFunc(o.authoritative, match)
	o.staged = slices.DeleteFunc(o.staged, match)
	return found
}

func upsert(list []models.SharedUser, u models.SharedUser) []models.SharedUser {
	if i := indexOf(list, u.UserID); i >= 0 {
		list[i] = u
		return list
	}
	return append(list, u)
}

func indexOf(list []models.SharedUser, userID int64) int {
	return slices.IndexFunc(list, func(s models.SharedUser) bool { return s.UserID == userID })
}

func nonNil(list []models.SharedUser) []models.SharedUser {
	if list == nil {
		return []models.SharedUser{}
	}
	return list
}
