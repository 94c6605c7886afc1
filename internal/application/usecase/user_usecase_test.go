package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vaxa-api/internal/application/dto"
	"github.com/jhoicas/vaxa-api/internal/application/usecase"
	"github.com/jhoicas/vaxa-api/internal/domain"
	"github.com/jhoicas/vaxa-api/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestUserCreate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	users := usecase.NewUserUseCase(e.repos.Users)

	u, err := users.Create(ctx, tenant.Company.ID, dto.CreateUserRequest{
		Email: " operador@andina.co ", Password: "operador-123", Role: entity.RoleOperador,
	})
	require.NoError(t, err)
	assert.Equal(t, "operador@andina.co", u.Email)
	assert.Equal(t, "operador@andina.co", u.Name, "sin nombre se usa el correo")
	assert.Equal(t, entity.UserStatusActive, u.Status)

	_, err = users.Create(ctx, tenant.Company.ID, dto.CreateUserRequest{
		Email: "operador@andina.co", Password: "operador-123", Role: entity.RoleOperador,
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = users.Create(ctx, tenant.Company.ID, dto.CreateUserRequest{Email: "x@andina.co", Password: "operador-123", Role: "superusuario"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = users.Create(ctx, tenant.Company.ID, dto.CreateUserRequest{Email: "x@andina.co", Password: "corta", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := users.List(ctx, tenant.Company.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUserUpdate_ReglasSobreSiMismo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	users := usecase.NewUserUseCase(e.repos.Users)
	adminID := tenant.Admin.ID

	op, err := users.Create(ctx, tenant.Company.ID, dto.CreateUserRequest{
		Email: "op@andina.co", Password: "operador-123", Name: "Op", Role: entity.RoleOperador,
	})
	require.NoError(t, err)

	_, err = users.Update(ctx, tenant.Company.ID, adminID, adminID, dto.UpdateUserRequest{Role: strPtr(entity.RoleOperador)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = users.Update(ctx, tenant.Company.ID, adminID, adminID, dto.UpdateUserRequest{Status: strPtr(entity.UserStatusInactive)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := users.Update(ctx, tenant.Company.ID, adminID, op.ID, dto.UpdateUserRequest{
		Role: strPtr(entity.RoleAdmin), Status: strPtr(entity.UserStatusInactive),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)
	assert.Equal(t, entity.UserStatusInactive, got.Status)

	_, err = users.Update(ctx, tenant.Company.ID, adminID, op.ID, dto.UpdateUserRequest{Status: strPtr("borrado")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = users.Update(ctx, "otra-empresa", adminID, op.ID, dto.UpdateUserRequest{Role: strPtr(entity.RoleOperador)})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	tenant := e.createTenant(t)
	users := usecase.NewUserUseCase(e.repos.Users)
	id := tenant.Admin.ID

	err := users.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "equivocada", NewPassword: "nueva-clave-1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	err = users.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "clave-segura-1", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, users.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "clave-segura-1", NewPassword: "nueva-clave-1"}))
	err = users.ChangePassword(ctx, id, dto.ChangePasswordRequest{CurrentPassword: "clave-segura-1", NewPassword: "otra-clave-2"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "la contraseña anterior ya no sirve")

	err = users.ChangePassword(ctx, "no-existe", dto.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "nueva-clave-1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
