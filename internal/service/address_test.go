package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raditya/storefront-api/internal/dto"
)

func newAddressFixture(t *testing.T) (*AddressService, *mockAddressRepo) {
	t.Helper()
	addresses := newMockAddressRepo()
	return NewAddressService(addresses), addresses
}

func createAddress(t *testing.T, svc *AddressService, userID uuid.UUID, isDefault bool) uuid.UUID {
	t.Helper()
	address, err := svc.Create(context.Background(), userID, dto.CreateAddressRequest{
		RecipientName: "Test User",
		Phone:         "555-0100",
		AddressLine1:  "1 Main St",
		City:          "Springfield",
		State:         "IL",
		PostalCode:    "62701",
		Country:       "US",
		IsDefault:     isDefault,
	})
	require.NoError(t, err)
	return address.ID
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	svc, repo := newAddressFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	first := createAddress(t, svc, userID, true)
	second := createAddress(t, svc, userID, true)

	assert.False(t, repo.addresses[first].IsDefault)
	assert.True(t, repo.addresses[second].IsDefault)

	defaultAddress, err := svc.GetDefault(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second, defaultAddress.ID)
}

func TestSetAsDefaultMovesTheFlag(t *testing.T) {
	svc, repo := newAddressFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	first := createAddress(t, svc, userID, true)
	second := createAddress(t, svc, userID, false)

	updated, err := svc.SetAsDefault(ctx, userID, second)
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.False(t, repo.addresses[first].IsDefault)
}

func TestSetAsDefaultRequiresOwnership(t *testing.T) {
	svc, _ := newAddressFixture(t)
	ctx := context.Background()

	addressID := createAddress(t, svc, uuid.New(), false)

	_, err := svc.SetAsDefault(ctx, uuid.New(), addressID)
	assert.ErrorIs(t, err, ErrAddressAccessDenied)

	_, err = svc.SetAsDefault(ctx, uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestDefaultsAreScopedPerUser(t *testing.T) {
	svc, _ := newAddressFixture(t)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	aliceDefault := createAddress(t, svc, alice, true)
	bobDefault := createAddress(t, svc, bob, true)

	gotAlice, err := svc.GetDefault(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, aliceDefault, gotAlice.ID)

	gotBob, err := svc.GetDefault(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, bobDefault, gotBob.ID)
}

func TestGetDefaultWithoutOne(t *testing.T) {
	svc, _ := newAddressFixture(t)

	_, err := svc.GetDefault(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoDefaultAddress)
}

func TestDeleteAddressUsedByOrders(t *testing.T) {
	svc, repo := newAddressFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	addressID := createAddress(t, svc, userID, false)
	repo.usedByOrders[addressID] = true

	err := svc.Delete(ctx, userID, addressID, false)
	assert.ErrorIs(t, err, ErrAddressInUse)

	repo.usedByOrders[addressID] = false
	require.NoError(t, svc.Delete(ctx, userID, addressID, false))
	assert.Empty(t, repo.addresses)
}

func TestAddressAccessControl(t *testing.T) {
	svc, _ := newAddressFixture(t)
	ctx := context.Background()

	addressID := createAddress(t, svc, uuid.New(), false)

	_, err := svc.GetByID(ctx, uuid.New(), addressID, false)
	assert.ErrorIs(t, err, ErrAddressAccessDenied)

	// Admins may read any address.
	got, err := svc.GetByID(ctx, uuid.New(), addressID, true)
	require.NoError(t, err)
	assert.Equal(t, addressID, got.ID)
}

func TestUpdateAddressPromotesDefault(t *testing.T) {
	svc, repo := newAddressFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	first := createAddress(t, svc, userID, true)
	second := createAddress(t, svc, userID, false)

	isDefault := true
	updated, err := svc.Update(ctx, userID, second, false, dto.UpdateAddressRequest{IsDefault: &isDefault})
	require.NoError(t, err)
	assert.True(t, updated.IsDefault)
	assert.False(t, repo.addresses[first].IsDefault)
}
