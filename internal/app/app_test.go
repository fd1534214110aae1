package app

import (
	"context"
	"testing"
	"time"

	"rwa-backend/internal/domain"
	"rwa-backend/internal/pkg/clock"
	"rwa-backend/internal/pkg/constants"
	"rwa-backend/internal/pkg/testdb"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	sweeper  = domain.Account("0x5ee9000000000000000000000000000000000001")
	landlord = domain.Account("0x1a4d000000000000000000000000000000000002")
	tenant   = domain.Account("0x7e4a000000000000000000000000000000000003")
)

func seedLease(t *testing.T, db *gorm.DB, status domain.LeaseStatus, end time.Time) uint {
	t.Helper()
	l := &domain.Lease{
		Landlord: landlord, Tenant: tenant, AssetID: uuid.New(),
		MonthlyRent: 10, SecurityDeposit: 20, DepositPaidAmount: 20,
		StartTime: end.Add(-30 * 24 * time.Hour), EndTime: end, Status: status,
	}
	require.NoError(t, db.Create(l).Error)
	return l.LeaseID
}

func TestNew_WiresEventsPublisher(t *testing.T) {
	db := testdb.Open(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svcs := New(db, rdb, Options{EventsChannel: "test:events"})
	require.NotNil(t, svcs.Events.Publisher)
	assert.Same(t, svcs.Ledger, svcs.Leases.Ledger)

	sub := rdb.Subscribe(context.Background(), "test:events")
	defer sub.Close()
	_, err := sub.Receive(context.Background())
	require.NoError(t, err)

	require.NoError(t, svcs.Access.Bootstrap(context.Background(), sweeper, constants.Admin))
	msg, err := sub.ReceiveMessage(context.Background())
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, "capability_granted")

	assert.Nil(t, New(db, nil, Options{}).Events.Publisher)
}

func TestSweepExpired(t *testing.T) {
	db := testdb.Open(t)
	fake := clock.NewFake(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	svcs := New(db, nil, Options{Clock: fake.Clock(), SweepBatchSize: 2})
	now := fake.Clock().Now()

	overdue := []uint{
		seedLease(t, db, domain.LeaseActive, now.Add(-72*time.Hour)),
		seedLease(t, db, domain.LeaseActive, now.Add(-48*time.Hour)),
		seedLease(t, db, domain.LeaseActive, now.Add(-24*time.Hour)),
	}
	running := seedLease(t, db, domain.LeaseActive, now.Add(24*time.Hour))
	pending := seedLease(t, db, domain.LeasePending, now.Add(-24*time.Hour))
	ctx := context.Background()

	n, err := SweepExpired(ctx, svcs.Leases, sweeper, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SweepExpired(ctx, svcs.Leases, sweeper, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for _, id := range overdue {
		l, err := svcs.Leases.GetLease(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.LeaseExpired, l.Status)
	}
	l, err := svcs.Leases.GetLease(ctx, running)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaseActive, l.Status)
	l, err = svcs.Leases.GetLease(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, domain.LeasePending, l.Status)

	n, err = SweepExpired(ctx, svcs.Leases, sweeper, 2, false)
	require.NoError(t, err)
	assert.Zero(t, n)

	var expiredEvents int64
	require.NoError(t, db.Model(&domain.AuditEvent{}).Where("kind = ?", domain.EventLeaseExpired).Count(&expiredEvents).Error)
	assert.Equal(t, int64(3), expiredEvents)
}
