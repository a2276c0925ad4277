package db

import (
	"context"

	"github.com/rankstage/rankstage/internal/domains/entity"
)

func (s *DB) ListDomains(ctx context.Context) (_ []entity.Domain, err error) {
	ctx, span := s.startSpan(ctx, "ListDomains")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM domains
		ORDER BY name`)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	domains := make([]entity.Domain, 0)
	for rows.Next() {
		var d entity.Domain
		if err = rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, s.mapError(err)
		}
		domains = append(domains, d)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return domains, nil
}

func (s *DB) GetDomainByID(ctx context.Context, id int64) (_ *entity.Domain, err error) {
	ctx, span := s.startSpan(ctx, "GetDomainByID")
	defer func() { s.endSpan(span, err) }()

	var d entity.Domain
	err = s.conn.QueryRow(ctx, `
		SELECT id, name, description, created_by, created_at, updated_at
		FROM domains
		WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &d, nil
}

func (s *DB) CreateDomain(ctx context.Context, in entity.NewDomain) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDomain")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO domains (id, name, description, created_by)
		VALUES ($1, $2, $3, $4)`,
		in.ID, in.Name, in.Description, in.CreatedBy,
	)

	return s.mapError(err)
}
