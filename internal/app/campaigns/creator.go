package campaigns

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/kunall-01/crowdspark-frontend/internal/app/apperr"
	"github.com/kunall-01/crowdspark-frontend/internal/app/routes"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

const (
	MsgLaunched     = "Campaign launched successfully!"
	MsgLaunchFailed = "Failed to launch campaign"
)

// ErrSubmitInProgress is returned when Submit is called while another submit is running.
var ErrSubmitInProgress = errors.New("submit already in progress")

// Draft is the create-campaign form.
type Draft struct {
	Title       string
	Description string
	GoalAmount  float64
	Deadline    string
	Category    domain.Category
	// Image is a hosted URL. It is replaced by the upload result when ImageFile is set.
	Image     string
	ImageFile *backend.Image
}

// Launch is a successful submit.
type Launch struct {
	Campaign domain.Campaign
	Message  string
	// Next is where the form navigates after showing Message.
	Next string
}

// Creator submits the create-campaign form.
type Creator struct {
	api        backend.Campaigns
	log        logr.Logger
	submitting atomic.Bool
}

func NewCreator(api backend.Campaigns, log logr.Logger) *Creator {
	return &Creator{api: api, log: log.WithName("creator")}
}

// Submitting reports whether a submit is running.
func (c *Creator) Submitting() bool { return c.submitting.Load() }

// Submit uploads the image file if there is one, then creates the campaign.
func (c *Creator) Submit(ctx context.Context, d Draft) (Launch, error) {
	if !c.submitting.CompareAndSwap(false, true) {
		return Launch{}, ErrSubmitInProgress
	}
	defer c.submitting.Store(false)

	image := d.Image
	if d.ImageFile != nil {
		url, err := c.api.Upload(ctx, *d.ImageFile)
		if err != nil {
			return Launch{}, c.fail(err)
		}
		image = url
	}

	created, err := c.api.CreateCampaign(ctx, backend.NewCampaign{
		Title:       d.Title,
		Description: d.Description,
		GoalAmount:  d.GoalAmount,
		Deadline:    d.Deadline,
		Category:    d.Category,
		Image:       image,
	})
	if err != nil {
		return Launch{}, c.fail(err)
	}
	c.log.V(1).Info("campaign launched", "campaignId", created.ID)
	return Launch{Campaign: created, Message: MsgLaunched, Next: routes.Dashboard}, nil
}

func (c *Creator) fail(err error) error {
	if !apperr.IsCancelled(err) {
		c.log.Error(err, "campaign launch error")
	}
	return apperr.FromBackend(err, MsgLaunchFailed)
}
