package sqlite

// Schema statements applied by Migrate, in order. Money columns hold minor
// units (centavos); timestamps are stored as UTC text.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS ledger_order_lines (
    row_id       TEXT PRIMARY KEY,
    timestamp    TEXT NOT NULL DEFAULT (datetime('now')),
    order_id     TEXT NOT NULL DEFAULT '',
    customer     TEXT NOT NULL DEFAULT '',
    product_code TEXT NOT NULL DEFAULT '',
    product_name TEXT NOT NULL DEFAULT '',
    unit_price   INTEGER NOT NULL DEFAULT 0,
    quantity     INTEGER NOT NULL DEFAULT 1,
    line_total   INTEGER NOT NULL DEFAULT 0,
    currency     TEXT NOT NULL DEFAULT 'ars',
    status       TEXT NOT NULL DEFAULT 'pending',
    comment      TEXT NOT NULL DEFAULT '',
    visibility   TEXT NOT NULL DEFAULT 'visible'
);

CREATE INDEX IF NOT EXISTS idx_ledger_order_lines_order ON ledger_order_lines (order_id);
CREATE INDEX IF NOT EXISTS idx_ledger_order_lines_customer ON ledger_order_lines (customer, visibility);
`,
	`
CREATE TABLE IF NOT EXISTS ledger_payments (
    row_id      TEXT PRIMARY KEY,
    timestamp   TEXT NOT NULL DEFAULT (datetime('now')),
    payment_id  TEXT NOT NULL DEFAULT '',
    customer    TEXT NOT NULL DEFAULT '',
    order_ref   TEXT NOT NULL DEFAULT '',
    product_ref TEXT NOT NULL DEFAULT '',
    amount      INTEGER NOT NULL DEFAULT 0,
    currency    TEXT NOT NULL DEFAULT 'ars',
    comment     TEXT NOT NULL DEFAULT '',
    visibility  TEXT NOT NULL DEFAULT 'visible'
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_payments_id ON ledger_payments (payment_id);
CREATE INDEX IF NOT EXISTS idx_ledger_payments_customer ON ledger_payments (customer, visibility);
`,
}
