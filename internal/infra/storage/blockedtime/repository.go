package blockedtime

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/dbmetrics"
	"github.com/theyool/booking-service/pkg/psqlbuilder"
	"github.com/theyool/booking-service/pkg/types"
)

const tableBlockedTimes = "blocked_times"

var blockedTimeColumns = []string{
	"id",
	"block_type",
	"blocked_date",
	"blocked_time_start",
	"blocked_time_end",
	"office_location",
	"reason",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository blocked times in PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository creates the repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a blocked time entry
func (r *Repository) Create(ctx context.Context, bt *domain.BlockedTime) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if bt.ID == uuid.Nil {
		bt.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableBlockedTimes).
		Columns(
			"id",
			"block_type",
			"blocked_date",
			"blocked_time_start",
			"blocked_time_end",
			"office_location",
			"reason",
			"created_by",
		).
		Values(
			bt.ID,
			string(bt.BlockType),
			bt.BlockedDate.Format(domain.DateFormat),
			timeValue(bt.StartTime),
			timeValue(bt.EndTime),
			officeValue(bt.Office),
			bt.Reason,
			bt.CreatedBy,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&bt.CreatedAt, &bt.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return bt, nil
}

// GetByID returns one entry
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockedTimeColumns...).
		From(tableBlockedTimes).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	bt, err := scanBlockedTime(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockedTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan: %w", ErrScanRow, err)
	}

	return bt, nil
}

// List returns entries in the date range; with an office, that office's and global entries
func (r *Repository) List(ctx context.Context, filter domain.BlockedTimeFilter) ([]*domain.BlockedTime, error) {
	builder := psqlbuilder.Select(blockedTimeColumns...).From(tableBlockedTimes)

	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"blocked_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"blocked_date": filter.DateTo.Format(domain.DateFormat)})
	}
	if filter.Office != nil {
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"office_location": string(*filter.Office)},
			squirrel.Eq{"office_location": nil},
		})
	}

	return r.query(ctx, "List", builder.OrderBy("blocked_date ASC", "blocked_time_start ASC NULLS FIRST"))
}

// ListForDate entries of the date whose scope covers the channel.
// Video sees only global entries; a visit channel sees its office's and global ones.
func (r *Repository) ListForDate(ctx context.Context, date time.Time, ch domain.Channel) ([]*domain.BlockedTime, error) {
	builder := psqlbuilder.Select(blockedTimeColumns...).
		From(tableBlockedTimes).
		Where(squirrel.Eq{"blocked_date": date.Format(domain.DateFormat)})

	if ch.Type == domain.ConsultationVisit && ch.Office != nil {
		builder = builder.Where(squirrel.Or{
			squirrel.Eq{"office_location": string(*ch.Office)},
			squirrel.Eq{"office_location": nil},
		})
	} else {
		builder = builder.Where(squirrel.Eq{"office_location": nil})
	}

	return r.query(ctx, "ListForDate", builder.OrderBy("blocked_time_start ASC NULLS FIRST"))
}

// UpdateReason replaces the reason; the only mutable field
func (r *Repository) UpdateReason(ctx context.Context, id uuid.UUID, reason *string) (*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBlockedTimes).
		Set("reason", reason).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(blockedTimeColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateReason - build update query: %v", ErrBuildQuery, err)
	}

	bt, err := scanBlockedTime(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBlockedTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateReason - execute update: %w", ErrExecQuery, err)
	}

	return bt, nil
}

// Delete removes the entry
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableBlockedTimes).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedTimeNotFound
	}

	return nil
}

func (r *Repository) query(ctx context.Context, op string, builder squirrel.SelectBuilder) ([]*domain.BlockedTime, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.BlockedTime, 0)
	for rows.Next() {
		bt, err := scanBlockedTime(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %w", ErrScanRow, op, err)
		}
		result = append(result, bt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBlockedTime(row rowScanner) (*domain.BlockedTime, error) {
	var (
		bt         domain.BlockedTime
		blockType  string
		start, end types.TimeString
		office     sql.NullString
	)

	err := row.Scan(
		&bt.ID,
		&blockType,
		&bt.BlockedDate,
		&start,
		&end,
		&office,
		&bt.Reason,
		&bt.CreatedBy,
		&bt.CreatedAt,
		&bt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	bt.BlockType = domain.BlockType(blockType)
	y, m, d := bt.BlockedDate.Date()
	bt.BlockedDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if !start.IsZero() {
		bt.StartTime = &start
	}
	if !end.IsZero() {
		bt.EndTime = &end
	}
	if office.Valid {
		o := domain.OfficeLocation(office.String)
		bt.Office = &o
	}

	return &bt, nil
}

func timeValue(t *types.TimeString) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.String()
}

func officeValue(o *domain.OfficeLocation) interface{} {
	if o == nil {
		return nil
	}
	return string(*o)
}
