package domain

// Models lists every table the service migrates.
func Models() []interface{} {
	return []interface{}{
		&User{}, &CapabilityGrant{}, &Identity{}, &BlacklistEntry{}, &RestrictedJurisdiction{},
		&ComplianceSettings{}, &Holder{}, &Asset{}, &Balance{}, &Allowance{}, &PaymentBalance{},
		&Lease{}, &RentPayment{}, &AuditEvent{},
	}
}
