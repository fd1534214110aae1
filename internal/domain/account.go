package domain

import (
	"strings"

	"rwa-backend/internal/pkg/validation"
)

// Account is a lower-cased 0x address.
type Account string

// ZeroAccount is the reserved "no sender" value. As a sender it marks issuance (mint);
// it is never a valid recipient.
const ZeroAccount Account = "0x0000000000000000000000000000000000000000"

// MintSentinel is the sender passed to the compliance gate for issuance.
const MintSentinel = ZeroAccount

// EscrowAccount is the payment-token custody account holding lease deposits.
const EscrowAccount Account = "escrow:leases"

// ParseAccount validates and normalises an address. ok is false for malformed input.
func ParseAccount(s string) (Account, bool) {
	s = strings.TrimSpace(s)
	if !validation.IsValidAccount(s) {
		return "", false
	}
	return Account(strings.ToLower(s)), true
}

// IsZero reports whether a is empty or the zero address.
func (a Account) IsZero() bool {
	return a == "" || a == ZeroAccount
}

func (a Account) String() string {
	return string(a)
}
