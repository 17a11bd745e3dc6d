package service

import (
	"context"
	"testing"

	"go-pos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAdminOnlyOnEmptyStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.auth.SeedAdmin(ctx, "Admin@Pos.Local", "admin123"))
	require.NoError(t, env.auth.SeedAdmin(ctx, "second@pos.local", "admin123"))

	users, err := env.auth.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@pos.local", users[0].Email)
	assert.Equal(t, model.RoleAdmin, users[0].Role)
}

func TestLoginAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.CreateUser(ctx, &CreateUserRequest{
		Email:    "cashier@pos.local",
		Password: "secret1",
		FullName: "Front Till",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)

	resp, err := env.auth.Login(ctx, "CASHIER@pos.local", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, []string{model.PrivSaleCreate}, resp.Privileges)
	assert.Equal(t, "Front Till", resp.User.FullName)

	user, err := env.auth.Authenticate(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "cashier@pos.local", user.Email)

	_, err = env.auth.Login(ctx, "cashier@pos.local", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "nobody@pos.local", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Authenticate(ctx, "not-a-token")
	assert.Error(t, err)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	req := CreateUserRequest{Email: "a@pos.local", Password: "secret1", FullName: "A", Role: model.RoleAdmin}

	_, err := env.auth.CreateUser(ctx, &req)
	require.NoError(t, err)

	dup := req
	dup.Email = " A@POS.local "
	_, err = env.auth.CreateUser(ctx, &dup)
	assert.ErrorIs(t, err, ErrEmailExists)

	var verr *ValidationError
	badRole := CreateUserRequest{Email: "b@pos.local", Password: "secret1", FullName: "B", Role: "owner"}
	_, err = env.auth.CreateUser(ctx, &badRole)
	assert.ErrorAs(t, err, &verr)

	shortPw := CreateUserRequest{Email: "c@pos.local", Password: "123", FullName: "C", Role: model.RoleCashier}
	_, err = env.auth.CreateUser(ctx, &shortPw)
	assert.ErrorAs(t, err, &verr)
}

func TestSetPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.auth.SeedAdmin(ctx, "admin@pos.local", "admin123"))

	require.NoError(t, env.auth.SetPassword(ctx, "admin@pos.local", "n3w-pass"))

	_, err := env.auth.Login(ctx, "admin@pos.local", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = env.auth.Login(ctx, "admin@pos.local", "n3w-pass")
	assert.NoError(t, err)

	assert.ErrorIs(t, env.auth.SetPassword(ctx, "ghost@pos.local", "whatever"), ErrUserNotFound)

	var verr *ValidationError
	assert.ErrorAs(t, env.auth.SetPassword(ctx, "admin@pos.local", "x"), &verr)
}
