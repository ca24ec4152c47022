package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/lib/pq"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

const pgUndefinedTable = "42P01"

var (
	ErrTableMissing        = errors.New("conversation table missing, provision the schema first")
	ErrInvalidDatabaseName = errors.New("invalid database name")

	databaseNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)
)

type RecordRepository struct {
	DB *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{DB: db}
}

func (r *RecordRepository) Create(ctx context.Context, rec *entity.Record) (int64, error) {
	if rec.Category.Table() == "" {
		return 0, entity.ErrUnknownCategory
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (created_at, ip, name, email, contact_number, company_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, rec.Category.Table())

	err := r.DB.QueryRowContext(ctx, query,
		rec.CreatedAt,
		nullString(rec.IP),
		rec.Name,
		rec.Email,
		rec.Contact,
		nullString(rec.Company),
	).Scan(&rec.ID)
	if err != nil {
		return 0, wrapErr(err)
	}

	return rec.ID, nil
}

func (r *RecordRepository) UpdateField(ctx context.Context, category entity.Category, id int64, field entity.Field, value string) error {
	col, err := column(category, field)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, category.Table(), col)

	res, err := r.DB.ExecContext(ctx, query, value, id)
	if err != nil {
		return wrapErr(err)
	}
	return expectOneRow(res)
}

func (r *RecordRepository) Complete(ctx context.Context, category entity.Category, id int64, field entity.Field, value string) (bool, error) {
	col, err := column(category, field)
	if err != nil {
		return false, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, wrapErr(err)
	}
	defer tx.Rollback()

	update := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE id = $2`, category.Table(), col)
	res, err := tx.ExecContext(ctx, update, value, id)
	if err != nil {
		return false, wrapErr(err)
	}
	if err := expectOneRow(res); err != nil {
		return false, err
	}

	claimCol := claimColumn(field)
	claim := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE id = $1 AND %s IS NULL`, category.Table(), claimCol, claimCol)
	res, err = tx.ExecContext(ctx, claim, id)
	if err != nil {
		return false, wrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, wrapErr(err)
	}
	return n == 1, nil
}

func (r *RecordRepository) FindByID(ctx context.Context, category entity.Category, id int64) (*entity.Record, error) {
	if category.Table() == "" {
		return nil, entity.ErrUnknownCategory
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectColumns(category), category.Table())

	fields := category.Fields()
	answers := make([]sql.NullString, len(fields))

	var (
		rec      = &entity.Record{Category: category, Answers: make(map[entity.Field]string, len(fields))}
		ip       sql.NullString
		company  sql.NullString
		notified sql.NullTime
	)

	dest := []any{&rec.ID, &rec.CreatedAt, &ip, &rec.Name, &rec.Email, &rec.Contact, &company}
	for i := range answers {
		dest = append(dest, &answers[i])
	}
	dest = append(dest, &notified)

	if err := r.DB.QueryRowContext(ctx, query, id).Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrRecordNotFound
		}
		return nil, wrapErr(err)
	}

	rec.IP = ip.String
	rec.Company = company.String
	for i, f := range fields {
		if answers[i].Valid {
			rec.Answers[f] = answers[i].String
		}
	}
	if notified.Valid {
		t := notified.Time
		rec.NotifiedAt = &t
	}
	return rec, nil
}

// Provision creates every category table that does not exist yet.
func (r *RecordRepository) Provision(ctx context.Context) error {
	for _, c := range entity.Categories() {
		if _, err := r.DB.ExecContext(ctx, createTableSQL(c)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", c.Table(), err)
		}
		if _, err := r.DB.ExecContext(ctx, addFeedbackClaimSQL(c)); err != nil {
			return fmt.Errorf("failed to upgrade table %s: %w", c.Table(), err)
		}
	}
	return nil
}

// CreateDatabase creates the named database unless it already exists and
// reports whether it had to be created.
func (r *RecordRepository) CreateDatabase(ctx context.Context, name string) (bool, error) {
	if !databaseNameRegex.MatchString(name) {
		return false, ErrInvalidDatabaseName
	}

	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`, name,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if _, err := r.DB.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(name)); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return true, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrRecordNotFound
	}
	return nil
}

func wrapErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUndefinedTable {
		return fmt.Errorf("%w: %v", ErrTableMissing, err)
	}
	return err
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
