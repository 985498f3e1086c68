// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/MKhiriev/crowdblog-auth/internal/config"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
)

// Storages aggregates every repository the services depend on.
type Storages struct {
	UserRepository          UserRepository
	SessionRepository       SessionRepository
	PasswordResetRepository PasswordResetRepository
	SocialProfileCache      SocialProfileCache
	HealthChecker           HealthChecker

	db    *DB
	redis *redis.Client
}

// NewStorages connects to the database, applies migrations and, when an
// address is configured, connects the Redis profile cache.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		db.Close()
		return nil, err
	}
	log.Info().Str("func", "NewStorages").Str("dialect", string(db.Dialect())).Msg("migrations applied")

	s := NewStoragesFromDB(db, log)

	if cfg.Cache.RedisAddress != "" {
		cache, client, err := NewRedisProfileCache(ctx, cfg.Cache, log)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.SocialProfileCache = cache
		s.redis = client
	}

	return s, nil
}

// NewStoragesFromDB builds the repositories over an open db, with the no-op
// profile cache.
func NewStoragesFromDB(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:          NewUserRepository(db, log),
		SessionRepository:       NewSessionRepository(db, log),
		PasswordResetRepository: NewPasswordResetRepository(db, log),
		SocialProfileCache:      NewNoopProfileCache(),
		HealthChecker:           db,
		db:                      db,
	}
}

// Close releases the database pool and the Redis client.
func (s *Storages) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}

	return errors.Join(errs...)
}
