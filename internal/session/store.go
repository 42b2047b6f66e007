package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Store tracks per-company session revocation marks in redis. Changing a
// company's status or plan, or editing a plan's feature bindings, revokes
// every session issued before the change; stale allows are worse than a
// forced re-login.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore creates a session store. ttl should cover the JWT lifetime so
// marks outlive every token they invalidate.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func revocationKey(companyID uint) string {
	return fmt.Sprintf("sessions:revoked:company:%d", companyID)
}

// RevokeCompany marks all sessions of one company issued before now as
// invalid.
func (s *Store) RevokeCompany(ctx context.Context, companyID uint) error {
	now := time.Now().Unix()
	return s.rdb.Set(ctx, revocationKey(companyID), now, s.ttl).Err()
}

// RevokeCompanies marks sessions for a batch of companies, e.g. every company
// on a plan whose feature bindings just changed.
func (s *Store) RevokeCompanies(ctx context.Context, companyIDs []uint) error {
	for _, id := range companyIDs {
		if err := s.RevokeCompany(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// RevokedSince returns the revocation mark for a company, if any. Tokens
// issued before the mark are invalid.
func (s *Store) RevokedSince(ctx context.Context, companyID uint) (time.Time, bool, error) {
	val, err := s.rdb.Get(ctx, revocationKey(companyID)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}

	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(unix, 0), true, nil
}
