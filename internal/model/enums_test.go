package model

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		wantErr  bool
	}{
		{"Admin", RoleAdmin, false},
		{"Editor", RoleEditor, false},
		{"Viewer", RoleViewer, false},
		{"admin", "", true},
		{"", "", true},
		{"Owner", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownRole))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}

func TestDefaultRoleIsLowestPrivilege(t *testing.T) {
	assert.Equal(t, RoleViewer, DefaultRole)
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled", "Refunded"} {
		st, err := ParseOrderStatus(s)
		require.NoError(t, err)
		assert.Equal(t, OrderStatus(s), st)
	}

	_, err := ParseOrderStatus("Lost")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
	assert.Contains(t, err.Error(), `"Lost"`)
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusShipped.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusRefunded.Terminal())
}

func TestProduct_HasSize(t *testing.T) {
	p := Product{AvailableSizes: []string{"S", "M"}}

	assert.True(t, p.HasSize("M"))
	assert.False(t, p.HasSize("m"))
	assert.False(t, Product{}.HasSize("M"))
}

func TestOrderItem_Subtotal(t *testing.T) {
	item := OrderItem{Price: decimal.RequireFromString("19.99"), Quantity: 3}

	assert.True(t, decimal.RequireFromString("59.97").Equal(item.Subtotal()))
}

func TestAuthResponse_User(t *testing.T) {
	avatar := "https://cdn.example.com/a.png"
	resp := AuthResponse{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: RoleEditor, Token: "tok", AvatarURL: &avatar}

	user := resp.User()

	assert.Equal(t, User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: RoleEditor, AvatarURL: &avatar}, user)
}

func TestDecimalsEncodeAsNumbers(t *testing.T) {
	data, err := json.Marshal(OrderItem{ProductID: "p1", Quantity: 2, Price: decimal.RequireFromString("19.99")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":19.99`)

	// quoted prices from older saved carts still decode
	var item OrderItem
	require.NoError(t, json.Unmarshal([]byte(`{"productId":"p1","quantity":1,"price":"5.50"}`), &item))
	assert.True(t, decimal.RequireFromString("5.5").Equal(item.Price))
}
