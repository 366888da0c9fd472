// Package wire holds the JSON shapes shared by the REST client and the dev backend.
//
// Field names follow the backend's documents (`_id`, `goalAmount`, `createdAt`, ...).
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/nullable"
)

// ErrorBody is the body of every non-2xx response.
type ErrorBody struct {
	Message   string                            `json:"message"`
	Code      string                            `json:"code,omitempty"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type User struct {
	ID        string     `json:"_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type Owner struct {
	ID       string `json:"_id,omitempty"`
	Username string `json:"username"`
}

type Campaign struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Image        string     `json:"image,omitempty"`
	GoalAmount   Amount     `json:"goalAmount"`
	RaisedAmount Amount     `json:"raisedAmount"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Owner        *Owner     `json:"owner,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// NewCampaign is the create-campaign body. Form-backed clients send goalAmount as a string.
type NewCampaign struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  Amount `json:"goalAmount"`
	Deadline    string `json:"deadline,omitempty"`
	Category    string `json:"category"`
	Image       string `json:"image,omitempty"`
}

// CampaignRef is the populated campaign on a contribution.
type CampaignRef struct {
	ID    string `json:"_id,omitempty"`
	Title string `json:"title"`
}

// Contribution accepts either `_id` or `id`, `title` or `campaign.title`, and `date` or
// `createdAt`; the first present wins.
type Contribution struct {
	ID         string                    `json:"_id,omitempty"`
	AltID      string                    `json:"id,omitempty"`
	CampaignID string                    `json:"campaignId,omitempty"`
	Title      string                    `json:"title,omitempty"`
	Campaign   *CampaignRef              `json:"campaign,omitempty"`
	Amount     Amount                    `json:"amount"`
	Date       *time.Time                `json:"date,omitempty"`
	CreatedAt  *time.Time                `json:"createdAt,omitempty"`
	Message    nullable.Nullable[string] `json:"message,omitempty"`
}

type UpgradeRequest struct {
	ID        string     `json:"_id"`
	User      *Owner     `json:"user,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type CreateOrderRequest struct {
	Amount Amount `json:"amount"`
}

type Order struct {
	OrderID  string `json:"orderId"`
	Amount   Amount `json:"amount"`
	Currency string `json:"currency"`
}

type Transaction struct {
	CampaignID string                    `json:"campaignId"`
	Amount     Amount                    `json:"amount"`
	Message    nullable.Nullable[string] `json:"message,omitempty"`
	PaymentID  string                    `json:"paymentId"`
	OrderID    string                    `json:"orderId"`
	Signature  string                    `json:"signature"`
}

type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

type UpgradeStatus struct {
	Requested bool `json:"requested"`
}

// Acknowledgement is the body of mutations that return nothing else.
type Acknowledgement struct {
	Message string `json:"message"`
}

// Amount is a currency amount that decodes from a JSON number or a numeric string.
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("amount %q: %w", s, err)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}
