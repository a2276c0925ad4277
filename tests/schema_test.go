package tests

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/rankstage/rankstage/internal/pkg/hash"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	full_name TEXT NOT NULL,
	bio TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	avatar_url TEXT NOT NULL DEFAULT '',
	role SMALLINT NOT NULL,
	status SMALLINT NOT NULL,
	created_by BIGINT NOT NULL DEFAULT 0,
	updated_by BIGINT NOT NULL DEFAULT 0,
	deleted_by BIGINT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS user_credentials (
	user_id BIGINT PRIMARY KEY REFERENCES users (id),
	password TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS domains (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	created_by BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS domain_applications (
	domain_id BIGINT NOT NULL REFERENCES domains (id),
	user_id BIGINT NOT NULL,
	status SMALLINT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	reviewed_at TIMESTAMPTZ,
	reviewed_by BIGINT,
	PRIMARY KEY (domain_id, user_id)
);

CREATE TABLE IF NOT EXISTS notifications (
	id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	trigger_key TEXT NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	data JSONB NOT NULL DEFAULT '{}',
	read_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	deleted_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS identity_casbin_rules (
	id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	ptype TEXT NOT NULL DEFAULT '',
	v0 TEXT NOT NULL DEFAULT '',
	v1 TEXT NOT NULL DEFAULT '',
	v2 TEXT NOT NULL DEFAULT '',
	v3 TEXT NOT NULL DEFAULT '',
	v4 TEXT NOT NULL DEFAULT '',
	v5 TEXT NOT NULL DEFAULT '',
	UNIQUE (ptype, v0, v1, v2, v3, v4, v5)
);
`

// prepareDatabase creates the schema and seeds the admin and moderator
// accounts the suite signs in with, including their casbin grants.
func prepareDatabase(ctx context.Context, dsn string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	hasher := hash.NewBcrypt(testBcryptCost, testBcryptPepper)

	accounts := []struct {
		id       int64
		email    string
		fullName string
		role     int16
		password string
	}{
		{adminID, adminEmail, "Site Admin", 3, adminPassword},
		{moderatorID, moderatorEmail, "Site Moderator", 2, moderatorPassword},
	}

	for _, acc := range accounts {
		hashed, err := hasher.Hash(acc.password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		if _, err := conn.Exec(ctx, `
			INSERT INTO users (id, email, full_name, role, status, created_by, updated_by)
			VALUES ($1, $2, $3, $4, 1, $1, $1)
			ON CONFLICT (id) DO NOTHING`,
			acc.id, acc.email, acc.fullName, acc.role,
		); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}

		if _, err := conn.Exec(ctx, `
			INSERT INTO user_credentials (user_id, password)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING`,
			acc.id, string(hashed),
		); err != nil {
			return fmt.Errorf("seed credential: %w", err)
		}
	}

	rules := [][3]string{
		{"p", "admin", "identity:mgmt:users"},
		{"p", "moderator", "domains:mgmt"},
		{"p", "moderator", "domains:review"},
	}
	for _, rule := range rules {
		if _, err := conn.Exec(ctx, `
			INSERT INTO identity_casbin_rules (ptype, v0, v1, v2)
			VALUES ($1, $2, $3, '*')
			ON CONFLICT (ptype, v0, v1, v2, v3, v4, v5) DO NOTHING`,
			rule[0], rule[1], rule[2],
		); err != nil {
			return fmt.Errorf("seed policy: %w", err)
		}
	}

	groupings := [][2]string{
		{fmt.Sprintf("%d", adminID), "admin"},
		{fmt.Sprintf("%d", moderatorID), "moderator"},
	}
	for _, g := range groupings {
		if _, err := conn.Exec(ctx, `
			INSERT INTO identity_casbin_rules (ptype, v0, v1)
			VALUES ('g', $1, $2)
			ON CONFLICT (ptype, v0, v1, v2, v3, v4, v5) DO NOTHING`,
			g[0], g[1],
		); err != nil {
			return fmt.Errorf("seed grouping: %w", err)
		}
	}

	return nil
}
