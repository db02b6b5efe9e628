package revocation

import "strings"

const DefaultKeyPrefix = "blacklisted:"

// FailPolicy decides what IsRevoked reports while the store is unreachable.
type FailPolicy string

const (
	// FailOpen treats an unreachable store as "not revoked". A store outage
	// then disables revocation until it recovers; credential expiry still
	// bounds exposure.
	FailOpen FailPolicy = "fail_open"
	// FailClosed treats an unreachable store as "revoked", signing every
	// session out for the duration of the outage.
	FailClosed FailPolicy = "fail_closed"
)

type Config struct {
	KeyPrefix  string     `mapstructure:"key_prefix"`
	FailPolicy FailPolicy `mapstructure:"fail_policy"`
}

func (c Config) withDefaults() Config {
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	switch FailPolicy(strings.ToLower(string(c.FailPolicy))) {
	case FailClosed:
		c.FailPolicy = FailClosed
	default:
		c.FailPolicy = FailOpen
	}
	return c
}
