package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Every table carries tenant_id. Child tables reference their parents through
// (tenant_id, id) pairs so a row can never point at another tenant's parent.
// Money columns are TEXT decimals.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS players (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    default_fee TEXT NOT NULL,
    join_date TEXT NOT NULL,
    active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (tenant_id, phone),
    UNIQUE (tenant_id, id)
);

CREATE TABLE IF NOT EXISTS periods (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    year INTEGER NOT NULL,
    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'open',
    total_expected TEXT NOT NULL DEFAULT '0',
    total_received TEXT NOT NULL DEFAULT '0',
    players_count INTEGER NOT NULL DEFAULT 0,
    version INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (tenant_id, year, month),
    UNIQUE (tenant_id, id)
);

CREATE TABLE IF NOT EXISTS monthly_records (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    period_id TEXT NOT NULL,
    player_id TEXT NOT NULL,
    player_name TEXT NOT NULL,
    phone TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    join_date TEXT NOT NULL,
    default_fee TEXT NOT NULL,
    custom_fee TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    payment_date INTEGER,
    pending_months_count INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (tenant_id, player_id, period_id),
    FOREIGN KEY (tenant_id, period_id) REFERENCES periods(tenant_id, id) ON DELETE CASCADE,
    FOREIGN KEY (tenant_id, player_id) REFERENCES players(tenant_id, id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS casual_records (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    period_id TEXT NOT NULL,
    player_name TEXT NOT NULL,
    play_date TEXT NOT NULL,
    invited_by TEXT NOT NULL DEFAULT '',
    amount TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    payment_date INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (tenant_id, period_id) REFERENCES periods(tenant_id, id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    tenant_id TEXT NOT NULL,
    period_id TEXT NOT NULL,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    category TEXT NOT NULL,
    date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (tenant_id, period_id) REFERENCES periods(tenant_id, id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_players_tenant_id ON players(tenant_id, name);
CREATE INDEX IF NOT EXISTS idx_periods_tenant_id ON periods(tenant_id, year, month);
CREATE INDEX IF NOT EXISTS idx_monthly_records_period ON monthly_records(tenant_id, period_id);
CREATE INDEX IF NOT EXISTS idx_monthly_records_player ON monthly_records(tenant_id, player_id);
CREATE INDEX IF NOT EXISTS idx_casual_records_period ON casual_records(tenant_id, period_id);
CREATE INDEX IF NOT EXISTS idx_expenses_period ON expenses(tenant_id, period_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
