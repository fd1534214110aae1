package constants

// Capabilities held in the capability table (account -> set of capabilities).
const (
	Admin             = "admin"
	Agent             = "agent"
	ComplianceOfficer = "compliance_officer"
	Treasurer         = "treasurer"
)

// ValidCapabilities is the set of grantable capabilities.
var ValidCapabilities = []string{Admin, Agent, ComplianceOfficer, Treasurer}

// IsValidCapability returns true if c is one of the grantable capabilities.
func IsValidCapability(c string) bool {
	for _, v := range ValidCapabilities {
		if v == c {
			return true
		}
	}
	return false
}

// Batch and sweep defaults used when config leaves them unset.
const (
	DefaultMaxBatchSize   = 100
	DefaultSweepBatchSize = 100
)
