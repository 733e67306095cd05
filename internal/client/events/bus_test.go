package events

import (
	"testing"

	"github.com/dmitrijs2005/studyhub/internal/client/models"
	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInOrderByKind(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(SetSaved, func(e Event) { got = append(got, "first:"+e.Material.Name) })
	b.Subscribe(SetSaved, func(e Event) { got = append(got, "second:"+e.Material.Name) })
	b.Subscribe(SetCopied, func(e Event) { got = append(got, "copied") })

	b.Publish(Event{Kind: SetSaved, Material: models.Material{ID: 1, Name: "Cells"}})

	assert.Equal(t, []string{"first:Cells", "second:Cells"}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus()
	calls := 0

	cancel := b.Subscribe(ShareAccepted, func(Event) { calls++ })
	b.Publish(Event{Kind: ShareAccepted})
	cancel()
	b.Publish(Event{Kind: ShareAccepted})

	assert.Equal(t, 1, calls)
}

func TestBus_HandlerMayPublish(t *testing.T) {
	b := NewBus()
	var deleted []int64

	b.Subscribe(MaterialsDeleted, func(e Event) { deleted = append(deleted, e.IDs...) })
	b.Subscribe(SetSaved, func(e Event) {
		b.Publish(Event{Kind: MaterialsDeleted, IDs: []int64{e.Material.ID}})
	})

	b.Publish(Event{Kind: SetSaved, Material: models.Material{ID: 7}})
	assert.Equal(t, []int64{7}, deleted)
}
