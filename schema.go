package main

const createDepositsSQL = `
CREATE TABLE IF NOT EXISTS deposits (
	id            UUID PRIMARY KEY,
	brand         TEXT NOT NULL,
	display_id    TEXT NOT NULL DEFAULT '',
	actor         TEXT NOT NULL DEFAULT '',
	amount        DOUBLE PRECISION NOT NULL DEFAULT 0,
	posted_at_raw BIGINT,
	posted_at_iso TEXT,
	status        TEXT NOT NULL DEFAULT '',
	raw_payload   JSONB,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_deposits_brand_status
	ON deposits (brand, status, updated_at);
`

const upsertDepositSQL = `
INSERT INTO deposits (
	id, brand, display_id, actor, amount,
	posted_at_raw, posted_at_iso, status, raw_payload, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
	brand         = EXCLUDED.brand,
	display_id    = EXCLUDED.display_id,
	actor         = EXCLUDED.actor,
	amount        = EXCLUDED.amount,
	posted_at_raw = EXCLUDED.posted_at_raw,
	posted_at_iso = EXCLUDED.posted_at_iso,
	status        = EXCLUDED.status,
	raw_payload   = EXCLUDED.raw_payload,
	updated_at    = EXCLUDED.updated_at;
`

const sweepDepositsSQL = `
UPDATE deposits
SET status = $1
WHERE brand = $2 AND status = $3 AND updated_at < $4;
`
