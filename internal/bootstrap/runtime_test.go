package bootstrap

import (
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBootstrapDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestEnsureDevRootAdminCreates(t *testing.T) {
	db := setupBootstrapDB(t)
	cfg := &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootPassword:  "bootstrap-password1",
	}

	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.Equal(t, "inkwell_root", root.Username)
	assert.Equal(t, "root@inkwell.local", root.Email)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.True(t, root.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(root.Password), []byte("bootstrap-password1")))
}

func TestEnsureDevRootAdminPromotesExisting(t *testing.T) {
	db := setupBootstrapDB(t)
	require.NoError(t, db.Create(&models.User{
		ID:       1,
		Username: "someone",
		Email:    "someone@example.com",
		Password: "hashed",
		Role:     models.RoleUser,
		IsActive: false,
	}).Error)

	cfg := &config.Config{
		Env:              "development",
		DevBootstrapRoot: true,
		DevRootPassword:  "bootstrap-password1",
	}
	require.NoError(t, ensureDevRootAdmin(cfg, db))

	var root models.User
	require.NoError(t, db.First(&root, 1).Error)
	assert.Equal(t, models.RoleAdmin, root.Role)
	assert.True(t, root.IsActive)
	assert.Equal(t, "someone", root.Username, "existing identity is kept, only role and status change")
}

func TestEnsureDevRootAdminGuards(t *testing.T) {
	db := setupBootstrapDB(t)

	// Disabled outside development, regardless of the flag.
	cfg := &config.Config{Env: "production", DevBootstrapRoot: true, DevRootPassword: "x"}
	require.NoError(t, ensureDevRootAdmin(cfg, db))
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	// Disabled when the flag is off.
	cfg = &config.Config{Env: "development", DevBootstrapRoot: false}
	require.NoError(t, ensureDevRootAdmin(cfg, db))
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	// A password is mandatory when enabled.
	cfg = &config.Config{Env: "development", DevBootstrapRoot: true}
	err := ensureDevRootAdmin(cfg, db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV_ROOT_PASSWORD")
}
