package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("secret1"))

	assert.NotEqual(t, "secret1", u.Password)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("secret2"))
}

func TestUserPrivileges(t *testing.T) {
	admin := User{Role: RoleAdmin}
	cashier := User{Role: RoleCashier}
	unknown := User{Role: "guest"}

	assert.True(t, admin.HasPrivilege(PrivUserManage))
	assert.True(t, cashier.HasPrivilege(PrivSaleCreate))
	assert.False(t, cashier.HasPrivilege(PrivSaleVoid))
	assert.Empty(t, unknown.Privileges())

	privs := cashier.Privileges()
	privs[0] = "mutated"
	assert.Equal(t, PrivSaleCreate, RolePrivileges[RoleCashier][0])
}

func TestUserJSONHidesPassword(t *testing.T) {
	u := User{Email: "a@pos.local", Role: RoleCashier}
	require.NoError(t, u.SetPassword("secret1"))

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), u.Password)
}

func TestDecimalsMarshalAsNumbers(t *testing.T) {
	p := Product{Barcode: "1", Name: "Cola", Price: decimal.RequireFromString("15.50")}

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price":15.5`)
}

func TestCartDataJSON(t *testing.T) {
	in := []byte(`{"items":[{"product_id":3,"product_name":"Tea","price":"12.25","quantity":2,"subtotal":24.5}],"discount":0,"subtotal":24.5,"total":24.5}`)

	var cart CartData
	require.NoError(t, json.Unmarshal(in, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, uint(3), cart.Items[0].ProductID)
	assert.True(t, cart.Items[0].Price.Equal(decimal.RequireFromString("12.25")))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("24.5")))
}
