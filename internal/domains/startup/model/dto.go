package model

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"launchsignal-backend/internal/shared/utils"
)

var websitePattern = regexp.MustCompile(`^https?://.+`)

var hundred = decimal.NewFromInt(100)

// StartupRequest is the create/update payload. SpecialOffer and CouponCode
// are legacy flat fields still sent by older clients.
type StartupRequest struct {
	Name           string   `json:"name"`
	Tagline        string   `json:"tagline"`
	Description    string   `json:"description"`
	Industry       string   `json:"industry"`
	Categories     []string `json:"categories"`
	BusinessType   string   `json:"business_type"`
	TargetAudience string   `json:"target_audience"`
	Website        string   `json:"website"`
	Logo           *string  `json:"logo"`
	Media          []string `json:"media"`

	HasSpecialOffer  bool             `json:"has_special_offer"`
	SpecialOffer     string           `json:"special_offer"`
	SpecialOfferText string           `json:"special_offer_text"`
	SpecialOfferCode string           `json:"special_offer_code"`
	CouponCode       string           `json:"coupon_code"`
	Discount         *decimal.Decimal `json:"discount"`
}

// legacyStartupFields are the camelCase names older clients still send.
type legacyStartupFields struct {
	BusinessType     string `json:"businessType"`
	TargetAudience   string `json:"targetAudience"`
	HasSpecialOffer  *bool  `json:"hasSpecialOffer"`
	SpecialOffer     string `json:"specialOffer"`
	SpecialOfferText string `json:"specialOfferText"`
	SpecialOfferCode string `json:"specialOfferCode"`
	CouponCode       string `json:"couponCode"`
}

// UnmarshalJSON accepts both snake_case and the legacy camelCase names.
// The snake_case value wins when a payload carries both.
func (r *StartupRequest) UnmarshalJSON(data []byte) error {
	type plain StartupRequest
	var req plain
	if err := json.Unmarshal(data, &req); err != nil {
		return err
	}
	var legacy legacyStartupFields
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&req.BusinessType, legacy.BusinessType)
	fill(&req.TargetAudience, legacy.TargetAudience)
	fill(&req.SpecialOffer, legacy.SpecialOffer)
	fill(&req.SpecialOfferText, legacy.SpecialOfferText)
	fill(&req.SpecialOfferCode, legacy.SpecialOfferCode)
	fill(&req.CouponCode, legacy.CouponCode)
	if !req.HasSpecialOffer && legacy.HasSpecialOffer != nil {
		req.HasSpecialOffer = *legacy.HasSpecialOffer
	}

	*r = StartupRequest(req)
	return nil
}

// Normalize trims text fields, dedupes categories, drops an empty logo and
// truncates media to MaxMediaEntries.
func (r *StartupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Tagline = strings.TrimSpace(r.Tagline)
	r.Industry = strings.TrimSpace(r.Industry)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)
	r.Website = strings.TrimSpace(r.Website)
	r.BusinessType = strings.TrimSpace(r.BusinessType)
	r.Categories = utils.NormalizeTags(r.Categories)

	if r.Logo != nil && strings.TrimSpace(*r.Logo) == "" {
		r.Logo = nil
	}

	media := make([]string, 0, len(r.Media))
	for _, m := range r.Media {
		if strings.TrimSpace(m) != "" {
			media = append(media, m)
		}
	}
	if len(media) > MaxMediaEntries {
		media = media[:MaxMediaEntries]
	}
	r.Media = media
}

func (r StartupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, 200).Error("name must be at least 2 characters"),
		),
		validation.Field(&r.Tagline,
			validation.Required.Error("tagline is required"),
			validation.RuneLength(MinTaglineLength, 300).Error("tagline must be at least 10 characters"),
		),
		validation.Field(&r.Description,
			validation.Required.Error("description is required"),
			validation.RuneLength(MinDescriptionLength, 0).Error("description must be at least 50 characters"),
		),
		validation.Field(&r.Categories,
			validation.Length(0, MaxCategories).Error("at most 3 categories are allowed"),
		),
		validation.Field(&r.BusinessType,
			validation.Required.Error("business type is required"),
			validation.In(string(BusinessB2B), string(BusinessB2C)).Error("business type must be B2B or B2C"),
		),
		validation.Field(&r.Website,
			validation.Required.Error("website is required"),
			validation.Match(websitePattern).Error("website must start with http:// or https://"),
		),
		validation.Field(&r.Discount, validation.By(validateDiscount)),
	)
}

func validateDiscount(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return errors.New("discount must be between 0 and 100")
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AdminListQuery filters the moderation list. Status is ignored unless it
// names a valid status; Q matches name or tagline literally.
type AdminListQuery struct {
	Status string `form:"status"`
	Q      string `form:"q"`
}

// FeedFilter scopes the adopter feed.
type FeedFilter struct {
	Interests      []string
	ExcludeUpvoted *uuid.UUID
}

type StartupListResponse struct {
	Startups []StartupListing `json:"startups"`
	Count    int              `json:"count"`
}

type UpvoteListResponse struct {
	Startups []UpvotedStartup `json:"startups"`
	Count    int              `json:"count"`
}

// TrendingItem is one ranked entry of a trending list.
type TrendingItem struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Tagline          string          `json:"tagline"`
	Description      string          `json:"description"`
	Industry         string          `json:"industry"`
	Categories       []string        `json:"categories"`
	BusinessType     BusinessType    `json:"business_type"`
	Views            int64           `json:"views"`
	Upvotes          int64           `json:"upvotes"`
	FounderID        uuid.UUID       `json:"founder_id"`
	Logo             *string         `json:"logo"`
	HasSpecialOffer  bool            `json:"has_special_offer"`
	SpecialOfferText string          `json:"special_offer_text"`
	SpecialOfferCode *string         `json:"special_offer_code"`
	Discount         decimal.Decimal `json:"discount"`
}

func NewTrendingItem(s *Startup, upvotes int64) TrendingItem {
	return TrendingItem{
		ID:               s.ID,
		Name:             s.Name,
		Tagline:          s.Tagline,
		Description:      s.Description,
		Industry:         s.Industry,
		Categories:       s.Categories,
		BusinessType:     s.BusinessType,
		Views:            s.Views,
		Upvotes:          upvotes,
		FounderID:        s.FounderID,
		Logo:             s.Logo,
		HasSpecialOffer:  s.HasSpecialOffer,
		SpecialOfferText: s.SpecialOfferText,
		SpecialOfferCode: s.SpecialOfferCode,
		Discount:         s.Discount,
	}
}

type TrendingResponse struct {
	Window   TrendingWindow `json:"window"`
	Startups []TrendingItem `json:"startups"`
}

type FilterOptions struct {
	Categories []string `json:"categories"`
	Industries []string `json:"industries"`
}

type AdminCounts struct {
	TotalStartups int64 `json:"total_startups"`
	TotalUsers    int64 `json:"total_users"`
	Pending       int64 `json:"pending"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
}

type ViewResponse struct {
	ID    uuid.UUID `json:"id"`
	Views int64     `json:"views"`
}
