package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodexplorer/app/models"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var d models.Dish
	require.NoError(t, json.Unmarshal([]byte(`{"id":7,"name":"Pizza","price":25.5,"image":"p.png"}`), &d))
	assert.Equal(t, models.ID("7"), d.ID)
	assert.Equal(t, "25.5", d.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"a-1","name":"Suco","price":"8.00"}`), &d))
	assert.Equal(t, models.ID("a-1"), d.ID)
}

func TestOrderWireShape(t *testing.T) {
	o := models.NewOrder("3").With("7", 2)
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":3,"status":"aberto","dishes":[{"dish_id":7,"amount":2}]}`, string(b))
}

func TestIDWithLeadingZerosStaysAString(t *testing.T) {
	o := models.NewOrder("01").With("007", 1).With("7", 2)
	b, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":"01","status":"aberto","dishes":[{"dish_id":"007","amount":1},{"dish_id":7,"amount":2}]}`, string(b))

	var back models.Order
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, []models.ID{"007", "7"}, back.DishIDs())
	assert.Equal(t, models.ID("01"), back.UserID)
}

func TestOrderWithKeepsIDsUnique(t *testing.T) {
	o := models.NewOrder("1").With("a", 1).With("b", 1).With("a", 2)

	assert.Equal(t, []models.ID{"a", "b"}, o.DishIDs())
	assert.Equal(t, 3, o.Amount("a"))
	assert.Equal(t, []models.ID{"b"}, o.Without("a").DishIDs())
	assert.Len(t, o.Dishes, 2, "original untouched")
}

func TestIdentityValid(t *testing.T) {
	assert.False(t, models.SignedOut.Valid())
	assert.False(t, models.Identity{Token: "t"}.Valid())
	assert.True(t, models.Identity{User: &models.User{ID: "1"}, Token: "t"}.Valid())
}
