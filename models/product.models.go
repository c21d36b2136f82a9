package models

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories is the fixed set a product may be filed under
var Categories = []string{
	"Groceries",
	"Home Appliances",
	"Sports",
	"Kid Stuff",
	"Medicines",
	"Electronics",
	"Fashion",
	"Books",
	"Others",
}

// FallbackCategory is used when an imported product names an unknown category
const FallbackCategory = "Others"

// PlaceholderImageURL is stored for imported products without an image
const PlaceholderImageURL = "https://via.placeholder.com/300x200?text=No+Image"

// IsCategory reports whether name is one of Categories
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// OfferType distinguishes the kinds of promotional offers
type OfferType string

const (
	OfferNone     OfferType = "none"
	OfferDiscount OfferType = "discount"
	OfferCustom   OfferType = "custom"
)

// Offer is a promotion attached to a product
type Offer struct {
	Type      OfferType  `bson:"type" json:"type"`
	Value     string     `bson:"value" json:"value"` // percent for discount, text for custom
	ExpiresAt *time.Time `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
}

// Active reports whether the offer applies at now
func (o *Offer) Active(now time.Time) bool {
	if o == nil || o.Type == OfferNone || o.Type == "" {
		return false
	}
	return o.ExpiresAt == nil || now.Before(*o.ExpiresAt)
}

// DiscountPercent returns the parsed percentage of a discount offer
func (o *Offer) DiscountPercent() (float64, bool) {
	if o == nil || o.Type != OfferDiscount {
		return 0, false
	}
	pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(o.Value), "%"), 64)
	if err != nil || pct <= 0 || pct > 100 {
		return 0, false
	}
	return pct, true
}

// Product represents an item in the catalog
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	Offer       *Offer             `bson:"offer,omitempty" json:"offer,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// EffectivePrice is the unit price after any active discount
func (p Product) EffectivePrice(now time.Time) float64 {
	if !p.Offer.Active(now) {
		return p.Price
	}
	if pct, ok := p.Offer.DiscountPercent(); ok {
		return p.Price * (100 - pct) / 100
	}
	return p.Price
}
