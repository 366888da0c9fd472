package pushchannel

import (
	"context"
	"encoding/json"

	"github.com/oapi-codegen/nullable"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// Event names on the push channel.
const (
	EventJoin         = "join"         // client→server, payload: user id
	EventLeave        = "leave"        // client→server, payload: user id
	EventNewBacking   = "new_backing"  // server→client, payload: NewBacking
	EventDonationMade = "donationMade" // client→server, payload: DonationMade
)

// Frame is the wire envelope for every push message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewBacking is the payload of EventNewBacking.
type NewBacking struct {
	Amount     float64                   `json:"amount"`
	CampaignID string                    `json:"campaignId"`
	Backer     string                    `json:"backer"`
	Message    nullable.Nullable[string] `json:"message,omitempty"`
}

// Backing converts the wire payload to the domain notification (without a sequence number).
func (nb NewBacking) Backing() domain.Backing {
	b := domain.Backing{
		Amount:     nb.Amount,
		CampaignID: domain.CampaignID(nb.CampaignID),
		Backer:     domain.NormalizeHumanName(nb.Backer),
	}
	if nb.Message.IsSpecified() && !nb.Message.IsNull() {
		if m, err := nb.Message.Get(); err == nil && m != "" {
			b.Message = &m
		}
	}
	return b
}

// DonationMade is the payload of EventDonationMade.
type DonationMade struct {
	CampaignID string                    `json:"campaignId"`
	Amount     float64                   `json:"amount"`
	Message    nullable.Nullable[string] `json:"message,omitempty"`
}

// Listener receives one delivered event. Listeners run on the channel's delivery goroutine,
// one event at a time.
type Listener func(ev Frame)

// Channel is the process-wide push connection.
//
// Listen registers fn for event under owner. Registering again under the same (event, owner)
// replaces the previous listener, so a remounted subscriber never receives an event twice.
// The returned stop func removes only the registration it created and is safe to call more
// than once. Subscribers must never close the channel itself.
type Channel interface {
	Emit(ctx context.Context, event string, payload any) error
	Listen(event, owner string, fn Listener) (stop func())
}
