package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeaseStatusTransitions(t *testing.T) {
	all := []LeaseStatus{LeasePending, LeaseActive, LeaseExpired, LeaseTerminated, LeaseCancelled}
	allowed := map[[2]LeaseStatus]bool{
		{LeasePending, LeaseActive}:    true,
		{LeasePending, LeaseCancelled}: true,
		{LeaseActive, LeaseTerminated}: true,
		{LeaseActive, LeaseExpired}:    true,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]LeaseStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
	assert.False(t, LeasePending.IsTerminal())
	assert.False(t, LeaseActive.IsTerminal())
	assert.True(t, LeaseExpired.IsTerminal())
	assert.True(t, LeaseTerminated.IsTerminal())
	assert.True(t, LeaseCancelled.IsTerminal())
}
