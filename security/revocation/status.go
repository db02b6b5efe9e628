package revocation

// Status is the result of a revocation lookup.
type Status int

const (
	StatusNotRevoked Status = iota
	StatusRevoked
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusNotRevoked:
		return "not_revoked"
	case StatusRevoked:
		return "revoked"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Outcome is the result of a revoke request.
type Outcome int

const (
	// OutcomeRevoked means an entry was written.
	OutcomeRevoked Outcome = iota
	// OutcomeSkipped means the credential was undecodable or already expired,
	// so there is nothing left to revoke.
	OutcomeSkipped
	// OutcomeUnavailable means the store could not be written.
	OutcomeUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRevoked:
		return "revoked"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}
