package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal persists trades, equity curves, and scan-run summaries
// in a single SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, shares, entry_price, exit_price, entry_time, exit_time, profit, profit_pct, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.Shares, t.EntryPrice,
		t.ExitPrice, t.EntryTime, t.ExitTime, t.Profit, t.ProfitPct, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, cash, open_value, equity, open_positions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.Cash, e.OpenValue, e.Equity, e.OpenPositions,
	)
	return err
}

func (j *SQLiteJournal) RecordScanRun(r ScanRun) error {
	_, err := j.db.Exec(`
		INSERT INTO scan_runs
		(run_id, created, symbols, eligible, skipped, elapsed_ms, workers)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Symbols, r.Eligible, r.Skipped,
		r.Elapsed.Milliseconds(), r.Workers,
	)
	return err
}

// ListTradesByRun returns all trades recorded under a run, ordered by
// entry time.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, shares, entry_price, exit_price,
		       entry_time, exit_time, profit, profit_pct, reason
		FROM trades WHERE run_id = ? ORDER BY entry_time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrades(rows)
}

// ListTradesClosedBetween returns trades whose exit time is in
// [start, end), across all runs.
func (j *SQLiteJournal) ListTradesClosedBetween(start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, symbol, shares, entry_price, exit_price,
		       entry_time, exit_time, profit, profit_pct, reason
		FROM trades WHERE exit_time >= ? AND exit_time < ? ORDER BY exit_time`,
		start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrades(rows)
}

func scanTrades(rows *sql.Rows) ([]TradeRecord, error) {
	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.TradeID, &t.RunID, &t.Symbol, &t.Shares, &t.EntryPrice,
			&t.ExitPrice, &t.EntryTime, &t.ExitTime, &t.Profit,
			&t.ProfitPct, &t.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
