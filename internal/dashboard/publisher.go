package dashboard

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go/v7"
)

// PubNubPublisher announces each new snapshot on a PubNub channel so other
// open consoles can refresh without waiting for their own timer.
type PubNubPublisher struct {
	channel string
	send    func(channel string, msg any) error
}

func NewPubNubPublisher(pn *pubnub.PubNub, channel string) *PubNubPublisher {
	return &PubNubPublisher{
		channel: channel,
		send: func(channel string, msg any) error {
			_, _, err := pn.Publish().
				Channel(channel).
				Message(msg).
				Execute()
			return err
		},
	}
}

// Publish sends the headline figures only; the payload limit of a PubNub
// message is far below a full snapshot.
func (p *PubNubPublisher) Publish(_ context.Context, snap *Snapshot) error {
	msg := map[string]any{
		"type":       "dashboard_refreshed",
		"seq":        snap.Seq,
		"fetched_at": snap.FetchedAt,
		"stats":      snap.Stats,
		"degraded":   snap.Degraded,
	}
	if err := p.send(p.channel, msg); err != nil {
		return fmt.Errorf("pubnub publish %s: %w", p.channel, err)
	}
	return nil
}
