package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain name", "orders", "orders", true},
		{"underscores and digits", "order_items_2", "order_items_2", true},
		{"strips quotes", `"orders"`, "orders", true},
		{"strips injection", "orders; DROP TABLE users", "ordersDROPTABLEusers", true},
		{"strips dashes", "order-items", "orderitems", true},
		{"strips dots", "main.orders", "mainorders", true},
		{"empty", "", "", false},
		{"only symbols", "';--", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizeIdentifier(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
