package identity

import (
	"context"
	"testing"

	"rwa-backend/internal/application/access"
	"rwa-backend/internal/application/events"
	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/apperr"
	"rwa-backend/internal/pkg/constants"
	"rwa-backend/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	officer  = domain.Account("0x0ff1ce0000000000000000000000000000000001")
	investor = domain.Account("0xb0b0000000000000000000000000000000000001")
	stranger = domain.Account("0x5742000000000000000000000000000000000001")
)

func setupIdentity(t *testing.T) *Service {
	db := testdb.Open(t)
	ev := &events.Service{DB: db}
	acc := &access.Service{DB: db, Events: ev}
	require.NoError(t, acc.Bootstrap(context.Background(), officer, constants.ComplianceOfficer))
	return &Service{DB: db, Events: ev}
}

func TestRegisterAndQuery(t *testing.T) {
	svc := setupIdentity(t)
	ctx := context.Background()

	verified, err := svc.IsVerified(ctx, investor)
	require.NoError(t, err)
	assert.False(t, verified)

	require.NoError(t, svc.Register(ctx, officer, investor, "did:example:123", 840))
	verified, err = svc.IsVerified(ctx, investor)
	require.NoError(t, err)
	assert.True(t, verified)

	code, err := svc.InvestorJurisdiction(ctx, investor)
	require.NoError(t, err)
	assert.Equal(t, uint16(840), code)

	// Re-registering overwrites the existing record.
	require.NoError(t, svc.Register(ctx, officer, investor, "did:example:456", 276))
	rec, err := svc.Get(ctx, investor)
	require.NoError(t, err)
	assert.Equal(t, "did:example:456", rec.IdentityHandle)
	assert.Equal(t, uint16(276), rec.JurisdictionCode)
}

func TestRegisterValidation(t *testing.T) {
	svc := setupIdentity(t)
	ctx := context.Background()

	assert.Equal(t, ErrInvalidAccount, svc.Register(ctx, officer, domain.ZeroAccount, "h", 1))
	assert.Equal(t, ErrInvalidAccount, svc.Register(ctx, officer, "", "h", 1))
	assert.Equal(t, ErrEmptyIdentityHandle, svc.Register(ctx, officer, investor, "  ", 1))
	assert.Equal(t, ErrZeroJurisdiction, svc.Register(ctx, officer, investor, "h", 0))

	err := svc.Register(ctx, stranger, investor, "h", 1)
	assert.ErrorIs(t, err, apperr.AuthorizationError)
}

func TestRemove(t *testing.T) {
	svc := setupIdentity(t)
	ctx := context.Background()

	assert.Equal(t, ErrIdentityNotFound, svc.Remove(ctx, officer, investor))
	require.NoError(t, svc.Register(ctx, officer, investor, "h", 1))
	require.NoError(t, svc.Remove(ctx, officer, investor))

	verified, err := svc.IsVerified(ctx, investor)
	require.NoError(t, err)
	assert.False(t, verified)
	_, err = svc.InvestorJurisdiction(ctx, investor)
	assert.ErrorIs(t, err, apperr.NotFound)
}

func TestUpdateJurisdiction(t *testing.T) {
	svc := setupIdentity(t)
	ctx := context.Background()

	assert.Equal(t, ErrIdentityNotFound, svc.UpdateJurisdiction(ctx, officer, investor, 250))
	require.NoError(t, svc.Register(ctx, officer, investor, "h", 840))
	assert.Equal(t, ErrZeroJurisdiction, svc.UpdateJurisdiction(ctx, officer, investor, 0))
	require.NoError(t, svc.UpdateJurisdiction(ctx, officer, investor, 250))

	code, err := svc.InvestorJurisdiction(ctx, investor)
	require.NoError(t, err)
	assert.Equal(t, uint16(250), code)

	evs, err := svc.Events.List(ctx, events.Filter{Kind: domain.EventJurisdictionUpdated})
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, investor.String(), evs[0].Subject)
}
