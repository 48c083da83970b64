package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS lecture_jobs (
	id              UUID PRIMARY KEY,
	user_id         TEXT NOT NULL,
	video_key       TEXT NOT NULL,
	transcript_key  TEXT NOT NULL DEFAULT '',
	result_key      TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL,
	slide_count     INT NOT NULL DEFAULT 0,
	segment_count   INT NOT NULL DEFAULT 0,
	file_size       BIGINT NOT NULL DEFAULT 0,
	video_duration  DOUBLE PRECISION NOT NULL DEFAULT 0,
	attempt         INT NOT NULL DEFAULT 0,
	max_attempts    INT NOT NULL DEFAULT 5,
	error_message   TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	completed_at    TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_lecture_jobs_user_id ON lecture_jobs (user_id);
CREATE INDEX IF NOT EXISTS idx_lecture_jobs_status  ON lecture_jobs (status);
`

// RunMigrations applies the idempotent schema. Kept inline rather than as
// separate files so the worker image needs no migration assets.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
