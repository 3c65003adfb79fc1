// Package store persists scan reports and their scored findings to a local
// SQLite database.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vulndetective/vulndetective/pkg/errors"
	"github.com/vulndetective/vulndetective/pkg/logging"
	"github.com/vulndetective/vulndetective/pkg/report"
	"github.com/vulndetective/vulndetective/pkg/severity"
)

// Store is a SQLite-backed report store.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	log logging.Logger
}

// Open opens (creating if necessary) the report database at path.
func Open(path string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Nop{}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.E(errors.KindStorage, "store.Open", "create database directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.E(errors.KindStorage, "store.Open", "open database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, errors.E(errors.KindStorage, "store.Open", "set pragma", err)
		}
	}

	s := &Store{db: db, log: log}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, errors.E(errors.KindStorage, "store.Open", "init schema", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		generated_at TIMESTAMP NOT NULL,
		filename TEXT NOT NULL,
		language TEXT,
		findings_count INTEGER NOT NULL,
		highest_severity TEXT NOT NULL,
		max_risk_score REAL NOT NULL,
		avg_base_score REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL,
		vuln_type TEXT NOT NULL,
		line_number INTEGER,
		severity TEXT NOT NULL,
		severity_priority INTEGER NOT NULL,
		base_score REAL NOT NULL,
		risk_score REAL NOT NULL,
		confidence REAL NOT NULL,
		vector_string TEXT NOT NULL,
		FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_findings_report_id ON findings(report_id);
	CREATE INDEX IF NOT EXISTS idx_findings_severity ON findings(severity_priority);
	CREATE INDEX IF NOT EXISTS idx_reports_generated_at ON reports(generated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveReport inserts a report and all of its findings in one transaction.
func (s *Store) SaveReport(ctx context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.E(errors.KindStorage, "store.SaveReport", "begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (
			id, generated_at, filename, language, findings_count,
			highest_severity, max_risk_score, avg_base_score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.GeneratedAt, r.Target.Filename, r.Target.Language,
		len(r.Findings), string(r.Stats.HighestSeverity),
		r.Stats.MaxRiskScore, r.Stats.AvgBaseScore,
	)
	if err != nil {
		return errors.E(errors.KindStorage, "store.SaveReport", "insert report", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (
			report_id, vuln_type, line_number, severity, severity_priority,
			base_score, risk_score, confidence, vector_string
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.E(errors.KindStorage, "store.SaveReport", "prepare insert", err)
	}
	defer stmt.Close()

	for _, f := range r.Findings {
		_, err := stmt.ExecContext(ctx,
			r.ID, f.VulnType, f.LineNumber,
			string(f.CVSS.Severity), f.CVSS.Severity.Priority(),
			f.CVSS.BaseScore, f.RiskScore, f.Confidence, f.CVSS.VectorString,
		)
		if err != nil {
			return errors.E(errors.KindStorage, "store.SaveReport", "insert finding", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.E(errors.KindStorage, "store.SaveReport", "commit", err)
	}

	s.log.Debug("saved report %s with %d findings", r.ID, len(r.Findings))
	return nil
}

// Summary is a stored report overview.
type Summary struct {
	ID              string
	GeneratedAt     time.Time
	Filename        string
	Language        string
	FindingsCount   int
	HighestSeverity severity.Level
	MaxRiskScore    float64
	AvgBaseScore    float64
}

// ListReports returns the most recent report summaries, newest first.
func (s *Store) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, filename, language, findings_count,
		       highest_severity, max_risk_score, avg_base_score
		FROM reports ORDER BY generated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.E(errors.KindStorage, "store.ListReports", "query", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sum Summary
		var sev string
		if err := rows.Scan(&sum.ID, &sum.GeneratedAt, &sum.Filename, &sum.Language,
			&sum.FindingsCount, &sev, &sum.MaxRiskScore, &sum.AvgBaseScore); err != nil {
			return nil, errors.E(errors.KindStorage, "store.ListReports", "scan", err)
		}
		sum.HighestSeverity = severity.Level(sev)
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// StoredFinding is a persisted scored finding.
type StoredFinding struct {
	ReportID     string
	VulnType     string
	LineNumber   int
	Severity     severity.Level
	BaseScore    float64
	RiskScore    float64
	Confidence   float64
	VectorString string
}

// FindingsAtLeast returns all stored findings with at least the given
// severity, highest risk first.
func (s *Store) FindingsAtLeast(ctx context.Context, min severity.Level) ([]StoredFinding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT report_id, vuln_type, line_number, severity,
		       base_score, risk_score, confidence, vector_string
		FROM findings WHERE severity_priority >= ?
		ORDER BY risk_score DESC, base_score DESC`, min.Priority())
	if err != nil {
		return nil, errors.E(errors.KindStorage, "store.FindingsAtLeast", "query", err)
	}
	defer rows.Close()

	var findings []StoredFinding
	for rows.Next() {
		var f StoredFinding
		var sev string
		if err := rows.Scan(&f.ReportID, &f.VulnType, &f.LineNumber, &sev,
			&f.BaseScore, &f.RiskScore, &f.Confidence, &f.VectorString); err != nil {
			return nil, errors.E(errors.KindStorage, "store.FindingsAtLeast", "scan", err)
		}
		f.Severity = severity.Level(sev)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
