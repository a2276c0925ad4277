package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rankstage/rankstage/internal/domains/entity"
	"github.com/rankstage/rankstage/internal/pkg/goerror"
)

func (s *DB) CreateApplication(ctx context.Context, domainID, userID int64) (err error) {
	ctx, span := s.startSpan(ctx, "CreateApplication")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO domain_applications (domain_id, user_id, status)
		VALUES ($1, $2, $3)`,
		domainID, userID, int16(entity.ApplicationStatusPending),
	)

	return s.mapError(err)
}

func (s *DB) GetApplication(ctx context.Context, domainID, userID int64) (_ *entity.Application, err error) {
	ctx, span := s.startSpan(ctx, "GetApplication")
	defer func() { s.endSpan(span, err) }()

	var (
		app        entity.Application
		reviewedAt pgtype.Timestamptz
		reviewedBy pgtype.Int8
	)

	err = s.conn.QueryRow(ctx, `
		SELECT domain_id, user_id, status, applied_at, reviewed_at, reviewed_by
		FROM domain_applications
		WHERE domain_id = $1 AND user_id = $2`,
		domainID, userID,
	).Scan(&app.DomainID, &app.UserID, &app.Status, &app.AppliedAt, &reviewedAt, &reviewedBy)
	if err != nil {
		return nil, s.mapError(err)
	}

	if reviewedAt.Valid {
		app.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		app.ReviewedBy = &reviewedBy.Int64
	}

	return &app, nil
}

// UpdateApplicationStatus decides a pending application. The pending guard
// makes concurrent reviews lose instead of overwriting each other.
func (s *DB) UpdateApplicationStatus(ctx context.Context, domainID, userID, reviewerID int64, status entity.ApplicationStatus) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateApplicationStatus")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE domain_applications
		SET status = $4, reviewed_at = now(), reviewed_by = $3
		WHERE domain_id = $1 AND user_id = $2 AND status = $5`,
		domainID, userID, reviewerID, int16(status), int16(entity.ApplicationStatusPending),
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
