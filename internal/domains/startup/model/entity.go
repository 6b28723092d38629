package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type BusinessType string

const (
	BusinessB2B BusinessType = "B2B"
	BusinessB2C BusinessType = "B2C"
)

// Startup is a founder's listing.
type Startup struct {
	ID        uuid.UUID `json:"id"`
	FounderID uuid.UUID `json:"founder_id"`

	Name           string       `json:"name"`
	Tagline        string       `json:"tagline"`
	Description    string       `json:"description"`
	Industry       string       `json:"industry"`
	Categories     []string     `json:"categories"`
	BusinessType   BusinessType `json:"business_type"`
	TargetAudience string       `json:"target_audience"`
	Website        string       `json:"website"`
	Logo           *string      `json:"logo"`
	Media          []string     `json:"media"`

	// Special offer
	HasSpecialOffer  bool            `json:"has_special_offer"`
	SpecialOfferText string          `json:"special_offer_text"`
	SpecialOfferCode *string         `json:"special_offer_code"`
	Discount         decimal.Decimal `json:"discount"`

	Status Status `json:"status"`
	Views  int64  `json:"views"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOwnedBy reports whether userID is the listing's founder.
func (s *Startup) IsOwnedBy(userID uuid.UUID) bool {
	return s.FounderID == userID
}

// StartupListing is a startup annotated with its live upvote count and
// founder details.
type StartupListing struct {
	Startup
	Upvotes      int64  `json:"upvotes"`
	FounderName  string `json:"founder_name,omitempty"`
	FounderEmail string `json:"founder_email,omitempty"`
}

// UpvotedStartup is an entry of an adopter's upvote list.
type UpvotedStartup struct {
	StartupListing
	UpvotedAt time.Time `json:"upvoted_at"`
}

// UpvoteCount is one row of a grouped upvote aggregation.
type UpvoteCount struct {
	StartupID uuid.UUID
	Count     int64
}
