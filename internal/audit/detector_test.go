package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/farmdesk/farmdesk/internal/domain"
)

func TestDiff(t *testing.T) {
	fields := domain.AuditedPriceFields()

	tests := []struct {
		name     string
		oldState map[string]interface{}
		newState map[string]interface{}
		expected []string
	}{
		{
			name: "no change yields empty diff",
			oldState: map[string]interface{}{
				"price_dealer_cash":   10.0,
				"price_dealer_credit": 11.0,
				"price_hotel_cash":    12.0,
				"price_hotel_credit":  13.0,
			},
			newState: map[string]interface{}{
				"price_dealer_cash":   10.0,
				"price_dealer_credit": 11.0,
				"price_hotel_cash":    12.0,
				"price_hotel_credit":  13.0,
			},
			expected: []string{},
		},
		{
			name: "single field change",
			oldState: map[string]interface{}{
				"price_dealer_cash":   10.0,
				"price_dealer_credit": 11.0,
				"price_hotel_cash":    12.0,
				"price_hotel_credit":  13.0,
			},
			newState: map[string]interface{}{
				"price_dealer_cash":   15.0,
				"price_dealer_credit": 11.0,
				"price_hotel_cash":    12.0,
				"price_hotel_credit":  13.0,
			},
			expected: []string{"price_dealer_cash"},
		},
		{
			name: "multiple changes preserve field order",
			oldState: map[string]interface{}{
				"price_dealer_cash":   10.0,
				"price_dealer_credit": 11.0,
				"price_hotel_cash":    12.0,
				"price_hotel_credit":  13.0,
			},
			newState: map[string]interface{}{
				"price_dealer_cash":   10.0,
				"price_dealer_credit": 20.0,
				"price_hotel_cash":    12.0,
				"price_hotel_credit":  30.0,
			},
			expected: []string{"price_dealer_credit", "price_hotel_credit"},
		},
		{
			name: "unaudited keys are ignored",
			oldState: map[string]interface{}{
				"price_dealer_cash": 10.0,
				"name":              "eggs",
			},
			newState: map[string]interface{}{
				"price_dealer_cash": 10.0,
				"name":              "brown eggs",
			},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Diff(tt.oldState, tt.newState, fields))
		})
	}
}

func TestDiff_MissingKeyCountsAsChange(t *testing.T) {
	old := map[string]interface{}{"price_dealer_cash": 10.0}
	updated := map[string]interface{}{}

	changed := Diff(old, updated, []string{"price_dealer_cash"})
	assert.Equal(t, []string{"price_dealer_cash"}, changed)
}
