package dashboard

import (
	"time"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
)

// DemoCampaigns are shown when the user has no campaigns or the fetch failed.
func DemoCampaigns() []domain.Campaign {
	return []domain.Campaign{
		{
			ID:           "demo1",
			Title:        "Plant Trees for the Planet 🌳",
			Image:        "https://images.unsplash.com/photo-1542601906990-b4d3fb778b09?q=80&w=1313&auto=format&fit=crop",
			RaisedAmount: 4500,
			GoalAmount:   10000,
			IsDemo:       true,
		},
		{
			ID:           "demo2",
			Title:        "Clean Drinking Water Initiative 🚰",
			Image:        "https://images.unsplash.com/photo-1637905351378-67232a5f0c9b?q=80&w=1025&auto=format&fit=crop",
			RaisedAmount: 8200,
			GoalAmount:   15000,
			IsDemo:       true,
		},
	}
}

// DemoContributions are shown when the user has no contributions or the fetch failed.
func DemoContributions() []domain.Contribution {
	return []domain.Contribution{
		{
			ID:     "fake1",
			Title:  "Support Rural Education 🎓",
			Amount: 1000,
			Date:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
			IsDemo: true,
		},
		{
			ID:     "fake2",
			Title:  "Emergency Relief Fund 🆘",
			Amount: 500,
			Date:   time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC),
			IsDemo: true,
		},
	}
}
