package service

import (
	"testing"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAdmin(t *testing.T, db *gorm.DB, username, password string) *model.Admin {
	t.Helper()
	admin := &model.Admin{Username: username}
	require.NoError(t, admin.SetPassword(password))
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(repository.NewAdminRepo(db))

	seedAdmin(t, db, "admin", "rahsia123")

	admin, err := svc.Login("admin", "rahsia123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	_, err = svc.Login("admin", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "rahsia123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(repository.NewAdminRepo(db))

	admin, err := svc.CreateAdmin("kedai", "rahsia123")
	require.NoError(t, err)
	assert.NotEqual(t, "rahsia123", admin.Password, "password must be stored hashed")
	assert.True(t, admin.CheckPassword("rahsia123"))

	_, err = svc.CreateAdmin("kedai", "lain456")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.CreateAdmin("pendek", "abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(repository.NewAdminRepo(db))

	admin := seedAdmin(t, db, "admin", "lama123")

	_, err := svc.ChangePassword(admin.ID, "baru456")
	require.NoError(t, err)

	_, err = svc.Login("admin", "lama123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("admin", "baru456")
	assert.NoError(t, err)

	_, err = svc.ChangePassword(999, "baru456")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
