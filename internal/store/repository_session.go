package store

import (
	"context"
	"time"

	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/models"
)

type sessionRepository struct {
	logger *logger.Logger
	db     *DB
	now    func() time.Time
}

// NewSessionRepository constructs a [SessionRepository] backed by db.
func NewSessionRepository(db *DB, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	log := logger.FromContext(ctx)

	if session.CreatedAt.IsZero() {
		session.CreatedAt = r.now().UTC()
	}

	query, args, err := r.db.insertSessionQuery(session)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error building query")
		return models.Session{}, storageError(ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		switch r.db.errorClassificator.Classify(err) {
		case UniqueViolation:
			return models.Session{}, ErrSessionAlreadyExists
		case ForeignKeyViolation:
			return models.Session{}, ErrNoUserWasFound
		case Retryable:
			log.Warn().Err(err).Str("func", "*sessionRepository.CreateSession").Msg("transient error inserting session")
			return models.Session{}, storageError(ErrTransient, err)
		}
		log.Err(err).Str("func", "*sessionRepository.CreateSession").Msg("error inserting session")
		return models.Session{}, storageError(ErrExecutingQuery, err)
	}

	return session, nil
}

func (r *sessionRepository) ListUserSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectUserSessionsQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ListUserSessions").Msg("error building query")
		return nil, storageError(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ListUserSessions").Msg("error selecting sessions")
		return nil, storageError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Err(err).Str("func", "*sessionRepository.ListUserSessions").Msg("error scanning session")
			return nil, storageError(ErrScanningRows, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		log.Err(err).Str("func", "*sessionRepository.ListUserSessions").Msg("error iterating sessions")
		return nil, storageError(ErrScanningRows, err)
	}

	return sessions, nil
}
