// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS rule_templates (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1,
	config TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS evaluations (
	id TEXT PRIMARY KEY,
	account_id TEXT NOT NULL,
	template_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	status TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT
);

CREATE TABLE IF NOT EXISTS daily_performance (
	account_id TEXT NOT NULL,
	trading_day TEXT NOT NULL,
	trade_count INTEGER NOT NULL CHECK (trade_count >= 0),
	net_pnl TEXT NOT NULL,
	PRIMARY KEY (account_id, trading_day)
);

CREATE INDEX IF NOT EXISTS idx_evaluations_account ON evaluations(account_id);
`
