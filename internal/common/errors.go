// Package common defines sentinel errors shared by the studyhub client
// stores and services. Callers should match them with errors.Is.
package common

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every client-side validation failure. Such
// failures are detected before any request is sent.
var ErrValidation = errors.New("validation error")

var (
	ErrBlankText     = fmt.Errorf("%w: text must not be blank", ErrValidation)
	ErrBlankName     = fmt.Errorf("%w: name must not be blank", ErrValidation)
	ErrSelfParent    = fmt.Errorf("%w: item cannot be its own parent", ErrValidation)
	ErrCycle         = fmt.Errorf("%w: target is inside the moved folder", ErrValidation)
	ErrInvalidTarget = fmt.Errorf("%w: target is not a folder", ErrValidation)
	ErrReplyToReply  = fmt.Errorf("%w: only top-level comments accept replies", ErrValidation)
	ErrUnknownItem   = fmt.Errorf("%w: unknown item", ErrValidation)
	ErrInvalidKind   = fmt.Errorf("%w: unsupported item kind", ErrValidation)
	ErrInvalidVote   = fmt.Errorf("%w: unsupported vote type", ErrValidation)
	ErrInvalidPerm   = fmt.Errorf("%w: unsupported permission", ErrValidation)
	ErrBlankEmail    = fmt.Errorf("%w: email must not be blank", ErrValidation)
	ErrBlankToken    = fmt.Errorf("%w: access token must not be blank", ErrValidation)
)

var (
	// ErrBusy is returned when an item already has a mutation in flight.
	ErrBusy = errors.New("another change to this item is in progress")

	// ErrNoSession is returned by set-scoped operations when no set is open.
	ErrNoSession = errors.New("no flashcard set is open")

	// ErrStale marks a response that arrived after its session was closed
	// or replaced; its result has been discarded.
	ErrStale = errors.New("response belongs to a closed session")

	// ErrTokenExpired is returned when the access token is already past its
	// expiry at login.
	ErrTokenExpired = errors.New("token expired")
)
