package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"launchsignal-backend/internal/shared/utils"
)

// Offer is the structured special-offer block stored on a startup.
type Offer struct {
	HasSpecialOffer bool
	Text            string
	Code            *string
	Discount        decimal.Decimal
}

// Offer folds the structured and legacy offer fields into one block.
func (r *StartupRequest) Offer() Offer {
	discount := decimal.Zero
	if r.Discount != nil {
		discount = *r.Discount
	}

	o := Offer{
		HasSpecialOffer: r.HasSpecialOffer ||
			strings.TrimSpace(r.SpecialOffer) != "" ||
			strings.TrimSpace(r.SpecialOfferText) != "" ||
			strings.TrimSpace(r.CouponCode) != "" ||
			discount.IsPositive(),
		Text:     utils.FirstNonEmpty(r.SpecialOfferText, r.SpecialOffer),
		Discount: discount,
	}
	if code := utils.FirstNonEmpty(r.SpecialOfferCode, r.CouponCode); code != "" {
		o.Code = &code
	}
	return o
}

// Apply copies the offer onto s.
func (o Offer) Apply(s *Startup) {
	s.HasSpecialOffer = o.HasSpecialOffer
	s.SpecialOfferText = o.Text
	s.SpecialOfferCode = o.Code
	s.Discount = o.Discount
}
