package actions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Its-donkey/ecs-webui/internal/ui/delegation"
	"github.com/Its-donkey/ecs-webui/internal/ui/dom"
)

// ActionDeleteMatch is the data-action value of delete buttons on the ECS FC schedule.
const ActionDeleteMatch = "delete-match"

// Registrar is the part of the delegation registry feature modules use.
type Registrar interface {
	Register(action string, h delegation.Handler, opts ...delegation.Options) error
}

// MatchRef is the payload of match row buttons.
type MatchRef struct {
	ID   int    `data:"matchId,required"`
	Team string `data:"teamName"`
}

// MatchActions wires the schedule's match buttons to the admin endpoints.
type MatchActions struct {
	Client   *Client
	Notifier delegation.Notifier
	// Confirm gates destructive actions; nil means confirmed.
	Confirm func(message string) bool
	// OnDeleted runs after the server confirmed a deletion, typically to
	// remove the row from the table.
	OnDeleted func(el dom.Element, ref MatchRef)

	inflight *InFlight
	// run starts the asynchronous part of a handler. Blocking network calls
	// must leave the browser's event callback, so it defaults to a goroutine.
	run     func(func())
	timeout time.Duration
}

// Register binds the match actions on reg.
func (m *MatchActions) Register(reg Registrar) error {
	if m.Client == nil {
		return errors.New("match actions: client is nil")
	}
	if m.inflight == nil {
		m.inflight = NewInFlight()
	}
	if m.run == nil {
		m.run = func(fn func()) { go fn() }
	}
	if m.timeout <= 0 {
		m.timeout = defaultTimeout
	}
	return reg.Register(ActionDeleteMatch, m.deleteMatch, delegation.Options{PreventDefault: true})
}

func (m *MatchActions) deleteMatch(el dom.Element, _ dom.Event) error {
	var ref MatchRef
	if err := Decode(el, &ref); err != nil {
		return err
	}
	if m.Confirm != nil && !m.Confirm(confirmDeleteMessage(ref)) {
		return nil
	}
	key := ActionDeleteMatch + ":" + strconv.Itoa(ref.ID)
	if !m.inflight.Begin(key) {
		return nil
	}
	m.run(func() {
		defer m.inflight.Done(key)
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		path := fmt.Sprintf("/admin-panel/ecs-fc/match/%d/delete", ref.ID)
		if _, err := m.Client.Post(ctx, path, nil); err != nil {
			if m.Notifier != nil {
				m.Notifier.Notify("Delete failed", err.Error())
			}
			return
		}
		if m.OnDeleted != nil {
			m.OnDeleted(el, ref)
		}
	})
	return nil
}

func confirmDeleteMessage(ref MatchRef) string {
	if ref.Team != "" {
		return fmt.Sprintf("Delete match %d for %s?", ref.ID, ref.Team)
	}
	return fmt.Sprintf("Delete match %d?", ref.ID)
}
