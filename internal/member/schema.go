package member

import (
	"context"
	"database/sql"
	"fmt"
)

// head_of_family_id deliberately carries no foreign key: the head member row
// is inserted after its family inside the same transaction.
const schema = `
CREATE TABLE IF NOT EXISTS samajs (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS families (
	id                BIGSERIAL PRIMARY KEY,
	name              TEXT NOT NULL,
	samaj_id          BIGINT NOT NULL REFERENCES samajs(id) ON DELETE CASCADE,
	head_of_family_id BIGINT,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (samaj_id, name)
);

CREATE TABLE IF NOT EXISTS members (
	id                   BIGSERIAL PRIMARY KEY,
	samaj_id             BIGINT NOT NULL REFERENCES samajs(id) ON DELETE CASCADE,
	family_id            BIGINT NOT NULL REFERENCES families(id) ON DELETE CASCADE,
	is_family_head       BOOLEAN NOT NULL DEFAULT FALSE,
	name                 TEXT NOT NULL,
	family_role          TEXT NOT NULL,
	gender               TEXT NOT NULL DEFAULT '',
	age                  INT,
	blood_group          TEXT NOT NULL DEFAULT '',
	mobile_1             TEXT NOT NULL DEFAULT '',
	mobile_2             TEXT,
	education            TEXT NOT NULL DEFAULT '',
	occupation           TEXT NOT NULL DEFAULT '',
	marital_status       TEXT NOT NULL DEFAULT '',
	address              TEXT NOT NULL DEFAULT '',
	email                TEXT NOT NULL DEFAULT '',
	birth_date           TEXT NOT NULL DEFAULT '',
	anniversary_date     TEXT,
	native_place         TEXT NOT NULL DEFAULT '',
	current_city         TEXT NOT NULL DEFAULT '',
	languages_known      TEXT NOT NULL DEFAULT '',
	skills               TEXT NOT NULL DEFAULT '',
	hobbies              TEXT NOT NULL DEFAULT '',
	emergency_contact    TEXT NOT NULL DEFAULT '',
	relationship_status  TEXT NOT NULL DEFAULT '',
	medical_conditions   TEXT,
	dietary_preferences  TEXT NOT NULL DEFAULT '',
	social_media_handles TEXT,
	profession_category  TEXT NOT NULL DEFAULT '',
	volunteer_interests  TEXT,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_families_samaj ON families (samaj_id);
CREATE INDEX IF NOT EXISTS idx_members_family ON members (family_id);
CREATE INDEX IF NOT EXISTS idx_members_samaj ON members (samaj_id);
CREATE INDEX IF NOT EXISTS idx_members_name ON members (lower(name));
`

// EnsureSchema creates the census tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure member schema: %w", err)
	}
	return nil
}
