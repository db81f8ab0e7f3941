package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("record not found")

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS extracted_data (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	number TEXT NOT NULL DEFAULT '',
	professional_summary TEXT NOT NULL DEFAULT '',
	project_name TEXT NOT NULL DEFAULT '',
	skills TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (name, email, number)
)`

// EnsureSchema creates the extracted_data table if it is missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("storage: ensure schema: %w", err)
	}
	return nil
}

// SaveRecords inserts records, skipping any whose (name, email, number)
// triple is already stored. The unique constraint plus ON CONFLICT makes
// the duplicate check and the insert a single atomic statement, so
// concurrent uploads of the same person cannot double-insert. Returns
// whether at least one row was newly inserted.
func (db *DB) SaveRecords(ctx context.Context, records []Record) (bool, error) {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback()

	const insert = `INSERT INTO extracted_data (name, email, number, professional_summary, project_name, skills)
	                VALUES ($1, $2, $3, $4, $5, $6)
	                ON CONFLICT (name, email, number) DO NOTHING`

	inserted := false
	for _, r := range records {
		res, err := tx.ExecContext(ctx, insert,
			r.Name, r.Email, r.Number, r.ProfessionalSummary, r.ProjectName, r.Skills)
		if err != nil {
			return false, fmt.Errorf("storage: insert record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("storage: rows affected: %w", err)
		}
		if n == 0 {
			name := r.Name
			if name == "" {
				name = "unknown"
			}
			log.Printf("Skipped storing duplicate record for %s", name)
			continue
		}
		inserted = true
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("storage: commit: %w", err)
	}
	return inserted, nil
}

// ListIDs returns all record ids in insertion order.
func (db *DB) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := db.connection.QueryContext(ctx, `SELECT id FROM extracted_data ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: list ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const recordColumns = `id, name, email, number, professional_summary, project_name, skills, created_at`

// GetRecordByID fetches one record, or ErrNotFound.
func (db *DB) GetRecordByID(ctx context.Context, id int64) (*Record, error) {
	row := db.connection.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM extracted_data WHERE id = $1`, id)

	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: fetch record: %w", err)
	}
	return r, nil
}

// ListRecords returns every stored record.
func (db *DB) ListRecords(ctx context.Context) ([]Record, error) {
	rows, err := db.connection.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM extracted_data ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: list records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

// SearchRecords returns records matching the provided criteria using ILIKE
// and simple skills matching.
func (db *DB) SearchRecords(ctx context.Context, criteria *Criteria) ([]Record, error) {
	base := `SELECT ` + recordColumns + ` FROM extracted_data`
	var where []string
	var args []interface{}
	i := 1

	if criteria == nil {
		criteria = &Criteria{}
	}

	if criteria.Name != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", i))
		args = append(args, "%"+criteria.Name+"%")
		i++
	}
	if criteria.Number != "" {
		where = append(where, fmt.Sprintf("number ILIKE $%d", i))
		args = append(args, "%"+criteria.Number+"%")
		i++
	}
	if len(criteria.Skills) > 0 {
		var skillConds []string
		for _, s := range criteria.Skills {
			skillConds = append(skillConds, fmt.Sprintf("skills ILIKE $%d", i))
			args = append(args, "%"+s+"%")
			i++
		}
		where = append(where, "("+strings.Join(skillConds, " OR ")+")")
	}

	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}
	base += " ORDER BY id"

	rows, err := db.connection.QueryContext(ctx, base, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: search records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan record: %w", err)
		}
		records = append(records, *r)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	r := &Record{}
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Number,
		&r.ProfessionalSummary, &r.ProjectName, &r.Skills, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}
