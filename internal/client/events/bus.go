// Package events carries cross-store notifications inside the client, for
// example "a set was saved, so the tree must show it".
package events

import (
	"sync"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
)

type Kind string

const (
	SetSaved      Kind = "set_saved"
	SetCopied     Kind = "set_copied"
	ShareAccepted Kind = "share_accepted"
	// MaterialsDeleted carries the ids removed by a cascade delete.
	MaterialsDeleted Kind = "materials_deleted"
)

type Event struct {
	Kind     Kind
	Material models.Material
	IDs      []int64
}

type Handler func(Event)

// Bus delivers events synchronously, in subscription order, on the
// publisher's goroutine.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Kind][]Handler)}
}

// Subscribe registers h for kind and returns a function that removes it.
func (b *Bus) Subscribe(kind Kind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[kind] = append(b.handlers[kind], h)
	idx := len(b.handlers[kind]) - 1
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if hs := b.handlers[kind]; idx < len(hs) {
			hs[idx] = nil
		}
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[e.Kind]...)
	b.mu.RUnlock()

	for _, h := range hs {
		if h != nil {
			h(e)
		}
	}
}
