package postgres

// Schema statements applied by Migrate, in order. Money columns hold minor
// units (centavos); timestamps are stored as timestamptz.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS ledger_order_lines (
    row_id       TEXT PRIMARY KEY,
    timestamp    TIMESTAMPTZ NOT NULL DEFAULT now(),
    order_id     TEXT NOT NULL DEFAULT '',
    customer     TEXT NOT NULL DEFAULT '',
    product_code TEXT NOT NULL DEFAULT '',
    product_name TEXT NOT NULL DEFAULT '',
    unit_price   BIGINT NOT NULL DEFAULT 0,
    quantity     BIGINT NOT NULL DEFAULT 1,
    line_total   BIGINT NOT NULL DEFAULT 0,
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
    timestamp   TIMESTAMPTZ NOT NULL DEFAULT now(),
    payment_id  TEXT NOT NULL DEFAULT '',
    customer    TEXT NOT NULL DEFAULT '',
    order_ref   TEXT NOT NULL DEFAULT '',
    product_ref TEXT NOT NULL DEFAULT '',
    amount      BIGINT NOT NULL DEFAULT 0,
    currency    TEXT NOT NULL DEFAULT 'ars',
    comment     TEXT NOT NULL DEFAULT '',
    visibility  TEXT NOT NULL DEFAULT 'visible'
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_payments_id ON ledger_payments (payment_id);
CREATE INDEX IF NOT EXISTS idx_ledger_payments_customer ON ledger_payments (customer, visibility);
`,
}
