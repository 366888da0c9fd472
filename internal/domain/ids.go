package domain

// UserID is the backend's stable identifier for a user (the `_id` field on the wire).
// It also names the user's push-channel room.
type UserID string

// CampaignID identifies a campaign record.
type CampaignID string

// ContributionID identifies a completed contribution (and its invoice).
type ContributionID string

// UpgradeRequestID identifies a backer's request to become a campaign owner.
type UpgradeRequestID string

// OrderID is the checkout provider's order identifier, issued by the backend.
type OrderID string
