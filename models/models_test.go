package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range OrderStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, OrderStatus("Lost").Valid())
	assert.False(t, OrderStatus("pending").Valid())
}

func TestEffectivePrice(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		offer *Offer
		want  float64
	}{
		{"no offer", nil, 200},
		{"none", &Offer{Type: OfferNone, Value: "50"}, 200},
		{"discount", &Offer{Type: OfferDiscount, Value: "25"}, 150},
		{"discount with percent sign", &Offer{Type: OfferDiscount, Value: "10%", ExpiresAt: &future}, 180},
		{"expired discount", &Offer{Type: OfferDiscount, Value: "25", ExpiresAt: &past}, 200},
		{"custom text", &Offer{Type: OfferCustom, Value: "Buy 1 get 1"}, 200},
		{"garbage discount", &Offer{Type: OfferDiscount, Value: "lots"}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: 200, Offer: tt.offer}
			assert.InDelta(t, tt.want, p.EffectivePrice(now), 1e-9)
		})
	}
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("Kid Stuff"))
	assert.False(t, IsCategory("kid stuff"))
	assert.False(t, IsCategory(""))
}
