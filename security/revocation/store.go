package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/bronystylecrazy/skyline/caching/rd"
	"github.com/bronystylecrazy/skyline/log"
	"github.com/bronystylecrazy/skyline/security/token"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrStoreNotConfigured = errors.New("revocation: store not configured")

type Decoder interface {
	Verify(credential string) (token.Payload, error)
}

// Store records revoked credentials under "<prefix><credential>" with a TTL
// equal to the credential's remaining lifetime.
type Store struct {
	client  rd.KeyValueStore
	decoder Decoder
	config  Config
	sink    *log.Sink
	now     func() time.Time
}

// NewStore accepts a nil client; every call then reports the store as
// unavailable.
func NewStore(client rd.KeyValueStore, decoder Decoder, config Config, sink *log.Sink) *Store {
	return &Store{
		client:  client,
		decoder: decoder,
		config:  config.withDefaults(),
		sink:    sink,
		now:     time.Now,
	}
}

func (s *Store) Policy() FailPolicy {
	return s.config.FailPolicy
}

func (s *Store) Key(credential string) string {
	return s.config.KeyPrefix + credential
}

func (s *Store) Revoke(ctx context.Context, credential string) Outcome {
	p, err := s.decoder.Verify(credential)
	if err != nil {
		if errors.Is(err, token.ErrMissingSecret) {
			s.sink.Warn("revoke skipped", err)
		}
		return OutcomeSkipped
	}

	ttl := p.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return OutcomeSkipped
	}
	if s.client == nil {
		s.sink.Warn("revoke skipped", ErrStoreNotConfigured, zap.String("user_id", p.UserID))
		return OutcomeUnavailable
	}

	if err := s.client.Set(ctx, s.Key(credential), "1", ttl).Err(); err != nil {
		s.sink.Warn("revoke failed", err, zap.String("user_id", p.UserID), zap.Duration("ttl", ttl))
		return OutcomeUnavailable
	}
	return OutcomeRevoked
}

func (s *Store) Lookup(ctx context.Context, credential string) Status {
	if credential == "" {
		return StatusNotRevoked
	}
	if s.client == nil {
		s.sink.Warn("revocation lookup skipped", ErrStoreNotConfigured)
		return StatusUnavailable
	}

	err := s.client.Get(ctx, s.Key(credential)).Err()
	switch {
	case err == nil:
		return StatusRevoked
	case errors.Is(err, redis.Nil):
		return StatusNotRevoked
	default:
		s.sink.Warn("revocation lookup failed", err, zap.String("policy", string(s.config.FailPolicy)))
		return StatusUnavailable
	}
}

// IsRevoked folds Lookup through the configured FailPolicy.
func (s *Store) IsRevoked(ctx context.Context, credential string) bool {
	switch s.Lookup(ctx, credential) {
	case StatusRevoked:
		return true
	case StatusUnavailable:
		return s.config.FailPolicy == FailClosed
	default:
		return false
	}
}
