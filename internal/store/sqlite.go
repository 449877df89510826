// Package store keeps trial results in a SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/llm-d-incubation/loss-simulator/internal/report"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Trial is one persisted trial.
type Trial struct {
	ID          string
	SweepID     string
	ArrivalRate float64
	ServiceRate float64
	Channels    int
	Requests    int

	TotalRequests     int
	ProcessedRequests int
	RejectedRequests  int
	BusyTime          float64
	IdleTime          float64
	OperationTime     float64

	Row report.Row
}

// SQLiteStore writes trials to a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	statement *sql.Stmt
}

// Open opens or creates the database at path and prepares the trials table.
// The path ":memory:" keeps the database in memory.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.prepareStatement(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTable() error {
	_, err := s.db.Exec(`
		create table if not exists trials
		(
			id             varchar(40) not null primary key,
			sweep_id       varchar(40) default '',
			arrival_rate   float       not null,
			service_rate   float       not null,
			channels       integer     not null,
			requests       integer     not null,
			total          integer     not null,
			processed      integer     not null,
			rejected       integer     not null,
			busy_time      float       not null,
			idle_time      float       not null,
			operation_time float       not null,
			report_row     text        not null
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create trials table: %w", err)
	}
	_, err = s.db.Exec(`create index if not exists trials_sweep_id_index on trials (sweep_id);`)
	if err != nil {
		return fmt.Errorf("failed to create trials index: %w", err)
	}
	return nil
}

func (s *SQLiteStore) prepareStatement() error {
	stmt, err := s.db.Prepare(`
		insert into trials (
			id, sweep_id, arrival_rate, service_rate, channels, requests,
			total, processed, rejected, busy_time, idle_time, operation_time, report_row
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	s.statement = stmt
	return nil
}

// SaveTrial inserts one trial. Trial ids must be unique.
func (s *SQLiteStore) SaveTrial(t Trial) error {
	if s.statement == nil {
		return ErrClosed
	}
	_, err := s.statement.Exec(
		t.ID,
		t.SweepID,
		t.ArrivalRate,
		t.ServiceRate,
		t.Channels,
		t.Requests,
		t.TotalRequests,
		t.ProcessedRequests,
		t.RejectedRequests,
		t.BusyTime,
		t.IdleTime,
		t.OperationTime,
		t.Row.Format(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trial %s: %w", t.ID, err)
	}
	return nil
}

// Trials returns the trials of a sweep ordered by arrival rate; an empty
// sweep id selects every trial.
func (s *SQLiteStore) Trials(sweepID string) ([]Trial, error) {
	if s.statement == nil {
		return nil, ErrClosed
	}
	query := `
		select id, sweep_id, arrival_rate, service_rate, channels, requests,
			total, processed, rejected, busy_time, idle_time, operation_time, report_row
		from trials`
	var args []any
	if sweepID != "" {
		query += ` where sweep_id = ?`
		args = append(args, sweepID)
	}
	query += ` order by arrival_rate, id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var trials []Trial
	for rows.Next() {
		var (
			t    Trial
			line string
		)
		err := rows.Scan(
			&t.ID, &t.SweepID, &t.ArrivalRate, &t.ServiceRate, &t.Channels, &t.Requests,
			&t.TotalRequests, &t.ProcessedRequests, &t.RejectedRequests,
			&t.BusyTime, &t.IdleTime, &t.OperationTime, &line,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		if t.Row, err = report.ParseRow(line); err != nil {
			return nil, fmt.Errorf("trial %s: %w", t.ID, err)
		}
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trials: %w", err)
	}
	return trials, nil
}

// Path is the database location given to Open.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close releases the database. Closing twice is a no-op.
func (s *SQLiteStore) Close() error {
	if s.statement == nil {
		return nil
	}
	s.statement.Close()
	s.statement = nil
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database %s: %w", s.path, err)
	}
	return nil
}
