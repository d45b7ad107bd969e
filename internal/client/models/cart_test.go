package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_TotalAndLen(t *testing.T) {
	c := Cart{Items: []CartItem{
		{ID: 1, Product: Product{ID: 10, Price: 250}, Quantity: 2},
		{ID: 2, Product: Product{ID: 11, Price: 99.5}, Quantity: 1},
	}}

	assert.Equal(t, 2, c.Len())
	assert.False(t, c.IsEmpty())
	assert.InDelta(t, 599.5, c.Total(), 1e-9)
}

func TestCart_EmptyTotalIsZero(t *testing.T) {
	var c Cart
	assert.True(t, c.IsEmpty())
	assert.Zero(t, c.Total())
}

func TestCart_CloneDoesNotAlias(t *testing.T) {
	c := Cart{Items: []CartItem{{ID: 1, Quantity: 1}}}
	cl := c.Clone()
	cl.Items[0].Quantity = 5

	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Nil(t, Cart{}.Clone().Items)
}

func TestCart_DecodesServerPayload(t *testing.T) {
	payload := `{"id":7,"userCart":true,"items":[{"id":3,"quantity":2,"product":{"id":5,"name":"Phone","brand":"Acme","price":1000,"available":true,"stockQuantity":4}}]}`

	var c Cart
	require.NoError(t, json.Unmarshal([]byte(payload), &c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(3), c.Items[0].ID)
	assert.Equal(t, "Phone", c.Items[0].Product.Name)
	assert.InDelta(t, 2000.0, c.Total(), 1e-9)
}

func TestSyncState_String(t *testing.T) {
	assert.Equal(t, "idle", SyncState{}.String())
	assert.Equal(t, "loading", LoadingState().String())
	assert.Equal(t, "error(boom)", ErrorState("boom").String())
	assert.Equal(t, "error", ErrorState("").String())
}

func TestUser_Valid(t *testing.T) {
	assert.True(t, User{ID: 1}.Valid())
	assert.False(t, User{Username: "x"}.Valid())
}
