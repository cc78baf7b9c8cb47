package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gradschool-portal/internal/legacy"
	"gradschool-portal/internal/repositories"

	"go.uber.org/zap"
)

// Cache key formats are an external contract: a background enrichment
// worker reads both entries by these exact names.
const (
	legacySessionKeyFmt     = "legacy_session_%d"
	pendingEnrichmentKeyFmt = "pending_enrichment_%d"
)

// PendingEnrichment marks a user whose legacy profile data is still being
// pulled in; consumed out-of-band by the enrichment worker.
type PendingEnrichment struct {
	IsStaff   bool  `json:"is_staff"`
	Timestamp int64 `json:"timestamp"`
}

// LegacySessionStore is a typed wrapper around the string-keyed cache
// entries the login flow leaves behind. Exactly one session exists per
// user at a time; each login overwrites the previous one. TTL expiry is
// the only cleanup — nothing invalidates these on logout.
type LegacySessionStore struct {
	cache         repositories.CacheRepositoryInterface
	sessionTTL    time.Duration
	enrichmentTTL time.Duration
	logger        *zap.Logger
}

func NewLegacySessionStore(cache repositories.CacheRepositoryInterface, sessionTTL, enrichmentTTL time.Duration, logger *zap.Logger) *LegacySessionStore {
	return &LegacySessionStore{
		cache:         cache,
		sessionTTL:    sessionTTL,
		enrichmentTTL: enrichmentTTL,
		logger:        logger,
	}
}

// StoreSession caches the portal session under legacy_session_{user_id}.
// Failures are logged and swallowed; they never fail the login.
func (s *LegacySessionStore) StoreSession(ctx context.Context, userID uint64, sess *legacy.Session) {
	payload, err := json.Marshal(sess)
	if err != nil {
		s.logger.Error("legacy session marshal failed", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	key := fmt.Sprintf(legacySessionKeyFmt, userID)
	if err := s.cache.Set(ctx, key, payload, s.sessionTTL); err != nil {
		s.logger.Error("legacy session cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *LegacySessionStore) GetSession(ctx context.Context, userID uint64) (*legacy.Session, error) {
	raw, err := s.cache.Get(ctx, fmt.Sprintf(legacySessionKeyFmt, userID))
	if err != nil {
		return nil, err
	}
	var sess legacy.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// MarkPendingEnrichment leaves the marker the background worker polls for.
func (s *LegacySessionStore) MarkPendingEnrichment(ctx context.Context, userID uint64, isStaff bool) {
	payload, err := json.Marshal(PendingEnrichment{IsStaff: isStaff, Timestamp: time.Now().Unix()})
	if err != nil {
		s.logger.Error("pending enrichment marshal failed", zap.Uint64("userID", userID), zap.Error(err))
		return
	}
	key := fmt.Sprintf(pendingEnrichmentKeyFmt, userID)
	if err := s.cache.Set(ctx, key, payload, s.enrichmentTTL); err != nil {
		s.logger.Error("pending enrichment cache write failed", zap.String("key", key), zap.Error(err))
	}
}
