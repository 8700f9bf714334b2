// internal/domain/gateway/service_test.go
package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupGateway(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Gateway{}))
	return NewService(db)
}

func TestCreate_DeactivatesOthers(t *testing.T) {
	svc := setupGateway(t)

	first, err := svc.Create(&CreateRequest{
		Name:        "Primary Razorpay",
		Provider:    "razorpay",
		Credentials: Credentials{"key_id": "rzp_live_1", "key_secret": "s3cret"},
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := svc.Create(&CreateRequest{
		Name:        "Backup PhonePe",
		Provider:    "PhonePe",
		Credentials: Credentials{"merchant_id": "M1", "salt_key": "salt"},
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.True(t, second.IsActive)
	assert.Equal(t, "phonepe", second.Provider)

	active, err := svc.GetActive()
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	all, err := svc.List()
	require.NoError(t, err)
	activeCount := 0
	for _, g := range all {
		if g.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestList_MasksSensitiveValues(t *testing.T) {
	svc := setupGateway(t)

	_, err := svc.Create(&CreateRequest{
		Name:        "Primary Razorpay",
		Provider:    "razorpay",
		Credentials: Credentials{"key_id": "rzp_live_1", "key_secret": "s3cret", "webhook_token": "tok"},
	})
	require.NoError(t, err)

	all, err := svc.List()
	require.NoError(t, err)
	require.Len(t, all, 1)

	creds := all[0].Credentials
	assert.Equal(t, "rzp_live_1", creds["key_id"])
	assert.Equal(t, "********", creds["key_secret"])
	assert.Equal(t, "********", creds["webhook_token"])
}

func TestUpdate_MaskedValuesKeepStoredSecrets(t *testing.T) {
	svc := setupGateway(t)

	g, err := svc.Create(&CreateRequest{
		Name:        "Primary Razorpay",
		Provider:    "razorpay",
		Credentials: Credentials{"key_id": "rzp_live_1", "key_secret": "s3cret"},
		IsActive:    true,
	})
	require.NoError(t, err)

	// Admin UI round-trips masked credentials when only toggling activation
	updated, err := svc.Update(g.ID, &UpdateRequest{
		IsActive:    true,
		Credentials: Credentials{"key_id": "rzp_live_2", "key_secret": "********"},
	})
	require.NoError(t, err)

	assert.Equal(t, "rzp_live_2", updated.Credentials["key_id"])
	assert.Equal(t, "s3cret", updated.Credentials["key_secret"])
}

func TestUpdate_RealValuesRotate(t *testing.T) {
	svc := setupGateway(t)

	g, err := svc.Create(&CreateRequest{
		Name:        "Primary Razorpay",
		Provider:    "razorpay",
		Credentials: Credentials{"key_id": "rzp_live_1", "key_secret": "old"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(g.ID, &UpdateRequest{
		Credentials: Credentials{"key_id": "rzp_live_1", "key_secret": "new"},
	})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Credentials["key_secret"])
}

func TestUpdate_ActivationDeactivatesOthers(t *testing.T) {
	svc := setupGateway(t)

	first, err := svc.Create(&CreateRequest{
		Name: "A", Provider: "razorpay",
		Credentials: Credentials{"key_id": "1"}, IsActive: true,
	})
	require.NoError(t, err)
	second, err := svc.Create(&CreateRequest{
		Name: "B", Provider: "custom",
		Credentials: Credentials{"key_id": "2"},
	})
	require.NoError(t, err)

	_, err = svc.Update(second.ID, &UpdateRequest{IsActive: true, Credentials: Credentials{"key_id": "2"}})
	require.NoError(t, err)

	active, err := svc.GetActive()
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	reloaded, err := svc.List()
	require.NoError(t, err)
	for _, g := range reloaded {
		if g.ID == first.ID {
			assert.False(t, g.IsActive)
		}
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	svc := setupGateway(t)

	g, err := svc.Create(&CreateRequest{
		Name: "A", Provider: "razorpay", Credentials: Credentials{"key_id": "1"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(g.ID))
	assert.ErrorIs(t, svc.Delete(g.ID), ErrGatewayNotFound)

	_, err = svc.Update(g.ID, &UpdateRequest{})
	assert.ErrorIs(t, err, ErrGatewayNotFound)

	_, err = svc.GetActive()
	assert.ErrorIs(t, err, ErrNoActiveGateway)
}
