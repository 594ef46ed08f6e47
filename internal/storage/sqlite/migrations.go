package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Monetary columns are TEXT holding canonical decimal strings; the
// zero-sum invariant does not survive REAL columns.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('PERSONAL', 'GROUP')),
    currency TEXT NOT NULL DEFAULT 'COP',
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (created_by) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS wallet_members (
    wallet_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    role TEXT NOT NULL CHECK (role IN ('OWNER', 'MEMBER')),
    PRIMARY KEY (wallet_id, user_id),
    FOREIGN KEY (wallet_id) REFERENCES wallets(id) ON DELETE CASCADE,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS categories (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('EXPENSE', 'INCOME')),
    description TEXT,
    wallet_id TEXT,
    created_by TEXT,
    is_system INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (wallet_id) REFERENCES wallets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    wallet_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('EXPENSE', 'INCOME', 'SETTLEMENT')),
    amount TEXT NOT NULL,
    paid_by TEXT NOT NULL,
    created_by TEXT NOT NULL,
    category_id TEXT,
    description TEXT,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (wallet_id) REFERENCES wallets(id) ON DELETE CASCADE,
    FOREIGN KEY (paid_by) REFERENCES users(id),
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS transaction_splits (
    id TEXT PRIMARY KEY,
    transaction_id TEXT NOT NULL,
    owed_by TEXT NOT NULL,
    amount TEXT NOT NULL,
    settled INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE,
    FOREIGN KEY (owed_by) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS settlements (
    id TEXT PRIMARY KEY,
    wallet_id TEXT NOT NULL,
    from_user_id TEXT NOT NULL,
    to_user_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    created_by TEXT NOT NULL,
    date INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (wallet_id) REFERENCES wallets(id) ON DELETE CASCADE,
    FOREIGN KEY (from_user_id) REFERENCES users(id),
    FOREIGN KEY (to_user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    scope TEXT NOT NULL CHECK (scope IN ('USER', 'WALLET')),
    user_id TEXT,
    wallet_id TEXT,
    name TEXT NOT NULL,
    target_amount TEXT NOT NULL,
    current_amount TEXT NOT NULL,
    deadline INTEGER,
    status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'PAUSED', 'ACHIEVED', 'CANCELLED')),
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (wallet_id) REFERENCES wallets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS goal_progress (
    id TEXT PRIMARY KEY,
    goal_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    note TEXT,
    created_by TEXT NOT NULL,
    date INTEGER NOT NULL,
    FOREIGN KEY (goal_id) REFERENCES goals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_wallet_members_user_id ON wallet_members(user_id);
CREATE INDEX IF NOT EXISTS idx_transactions_wallet_id ON transactions(wallet_id);
CREATE INDEX IF NOT EXISTS idx_splits_transaction_id ON transaction_splits(transaction_id);
CREATE INDEX IF NOT EXISTS idx_splits_owed_by ON transaction_splits(owed_by);
CREATE INDEX IF NOT EXISTS idx_settlements_wallet_id ON settlements(wallet_id);
CREATE INDEX IF NOT EXISTS idx_goals_wallet_id ON goals(wallet_id);
CREATE INDEX IF NOT EXISTS idx_goal_progress_goal_id ON goal_progress(goal_id);
`

// seedCategories inserts the system categories, including the debt
// settlement category the recorder's fallback chain resolves.
const seedCategories = `
INSERT INTO categories (id, name, type, description, is_system, created_at)
SELECT 'cat-settlement', 'Debt settlement', 'EXPENSE', 'Payments clearing debts between members', 1, unixepoch()
WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Debt settlement' AND is_system = 1);

INSERT INTO categories (id, name, type, description, is_system, created_at)
SELECT 'cat-groceries', 'Groceries', 'EXPENSE', 'Supermarket and food', 1, unixepoch()
WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Groceries' AND is_system = 1);

INSERT INTO categories (id, name, type, description, is_system, created_at)
SELECT 'cat-rent', 'Rent', 'EXPENSE', 'Rent and housing', 1, unixepoch()
WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Rent' AND is_system = 1);

INSERT INTO categories (id, name, type, description, is_system, created_at)
SELECT 'cat-salary', 'Salary', 'INCOME', 'Wages and salary', 1, unixepoch()
WHERE NOT EXISTS (SELECT 1 FROM categories WHERE name = 'Salary' AND is_system = 1);
`

// runMigrations executes the schema setup and seeds system categories.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(seedCategories)
	return err
}
