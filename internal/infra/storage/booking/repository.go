package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/dbmetrics"
	"github.com/theyool/booking-service/pkg/psqlbuilder"
)

const (
	tableBookings = "bookings"

	codeUniqueViolation = "23505"
)

var bookingColumns = []string{
	"id",
	"consultation_type",
	"office_location",
	"preferred_date",
	"preferred_time",
	"name",
	"phone",
	"email",
	"category",
	"message",
	"preferred_lawyer",
	"status",
	"assigned_lawyer",
	"video_link",
	"admin_notes",
	"confirmed_at",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository bookings in PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository creates the repository
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create inserts a booking. The active-slot unique index turns a lost race into ErrSlotNotAvailable.
// Uses the transaction from ctx when there is one.
func (r *Repository) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"id",
			"consultation_type",
			"office_location",
			"preferred_date",
			"preferred_time",
			"name",
			"phone",
			"email",
			"category",
			"message",
			"preferred_lawyer",
			"status",
			"admin_notes",
		).
		Values(
			b.ID,
			string(b.Type),
			officeValue(b.Office),
			b.PreferredDate.Format(domain.DateFormat),
			b.PreferredTime,
			b.Name,
			b.Phone,
			b.Email,
			b.Category,
			b.Message,
			lawyerValue(b.PreferredLawyer),
			string(b.Status),
			b.AdminNotes,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: Create - %s %s %s", ErrSlotNotAvailable,
				b.Channel().Key(), b.PreferredDate.Format(domain.DateFormat), b.PreferredTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return b, nil
}

// GetByID returns the booking; inside a transaction the row is locked FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return b, nil
}

// List returns bookings matching the filter.
//
// Conflict checks pass the exact Channel, date, time and active statuses with ForUpdate,
// which locks the competing rows for the rest of the transaction.
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := applyFilter(psqlbuilder.Select(bookingColumns...).From(tableBookings), filter)

	if filter.OrderByCreated {
		builder = builder.OrderBy("created_at ASC", "id ASC")
	} else {
		builder = builder.OrderBy("preferred_date DESC", "preferred_time DESC", "created_at DESC")
	}

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		builder = builder.Suffix("FOR UPDATE")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// UpdateStatus persists a lifecycle change made on b.
// The row must still be in status from; otherwise ErrStatusChanged.
func (r *Repository) UpdateStatus(ctx context.Context, b *domain.Booking, from domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", string(b.Status)).
		Set("confirmed_at", b.ConfirmedAt).
		Set("cancelled_at", b.CancelledAt).
		Set("admin_notes", b.AdminNotes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": b.ID, "status": string(from)}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: booking id=%s is no longer %s", ErrStatusChanged, b.ID, from)
	}
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %w", ErrExecQuery, err)
	}

	return nil
}

// UpdateDetails changes admin-editable fields and returns the updated booking
func (r *Repository) UpdateDetails(ctx context.Context, id uuid.UUID, update domain.BookingDetailsUpdate) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	builder := psqlbuilder.Update(tableBookings).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if update.AssignedLawyer != nil {
		builder = builder.Set("assigned_lawyer", *update.AssignedLawyer)
	}
	if update.VideoLink != nil {
		builder = builder.Set("video_link", *update.VideoLink)
	}
	if update.AdminNotes != nil {
		builder = builder.Set("admin_notes", *update.AdminNotes)
	}

	query, args, err := builder.Suffix("RETURNING " + strings.Join(bookingColumns, ", ")).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateDetails - build update query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateDetails - execute update: %w", ErrExecQuery, err)
	}

	return b, nil
}

// Stats dashboard counters; today and thisWeek count bookings created since the given instants
func (r *Repository) Stats(ctx context.Context, todayStart, weekStart time.Time) (*domain.BookingStats, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", string(domain.StatusPending))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE status = ?)", string(domain.StatusConfirmed))).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE created_at >= ?)", todayStart)).
		Column(squirrel.Expr("COUNT(*) FILTER (WHERE created_at >= ?)", weekStart)).
		From(tableBookings).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - build select query: %v", ErrBuildQuery, err)
	}

	var stats domain.BookingStats
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Today,
		&stats.ThisWeek,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - scan: %w", ErrScanRow, err)
	}

	return &stats, nil
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.BookingFilter) squirrel.SelectBuilder {
	if filter.Channel != nil {
		builder = builder.Where(squirrel.Eq{"consultation_type": string(filter.Channel.Type)})
		if filter.Channel.Office != nil {
			builder = builder.Where(squirrel.Eq{"office_location": string(*filter.Channel.Office)})
		} else {
			builder = builder.Where(squirrel.Eq{"office_location": nil})
		}
	}
	if filter.Type != nil {
		builder = builder.Where(squirrel.Eq{"consultation_type": string(*filter.Type)})
	}
	if filter.Office != nil {
		builder = builder.Where(squirrel.Eq{"office_location": string(*filter.Office)})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"preferred_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		builder = builder.Where(squirrel.LtOrEq{"preferred_date": filter.DateTo.Format(domain.DateFormat)})
	}
	if filter.Time != nil {
		builder = builder.Where(squirrel.Eq{"preferred_time": filter.Time.String()})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		builder = builder.Where(squirrel.Eq{"status": statuses})
	}
	if filter.ExcludeID != nil {
		builder = builder.Where(squirrel.NotEq{"id": *filter.ExcludeID})
	}
	if filter.CreatedBefore != nil {
		builder = builder.Where(squirrel.Lt{"created_at": *filter.CreatedBefore})
	}
	if filter.CreatedFrom != nil {
		builder = builder.Where(squirrel.GtOrEq{"created_at": *filter.CreatedFrom})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                domain.Booking
		consultationType string
		office           sql.NullString
		lawyer           sql.NullString
		status           string
		confirmedAt      sql.NullTime
		cancelledAt      sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&consultationType,
		&office,
		&b.PreferredDate,
		&b.PreferredTime,
		&b.Name,
		&b.Phone,
		&b.Email,
		&b.Category,
		&b.Message,
		&lawyer,
		&status,
		&b.AssignedLawyer,
		&b.VideoLink,
		&b.AdminNotes,
		&confirmedAt,
		&cancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Type = domain.ConsultationType(consultationType)
	b.Status = domain.BookingStatus(status)
	y, m, d := b.PreferredDate.Date()
	b.PreferredDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	if office.Valid {
		o := domain.OfficeLocation(office.String)
		b.Office = &o
	}
	if lawyer.Valid {
		l := domain.LawyerName(lawyer.String)
		b.PreferredLawyer = &l
	}
	if confirmedAt.Valid {
		b.ConfirmedAt = &confirmedAt.Time
	}
	if cancelledAt.Valid {
		b.CancelledAt = &cancelledAt.Time
	}

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeUniqueViolation
}

func officeValue(o *domain.OfficeLocation) interface{} {
	if o == nil {
		return nil
	}
	return string(*o)
}

func lawyerValue(l *domain.LawyerName) interface{} {
	if l == nil {
		return nil
	}
	return string(*l)
}
