package booking

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theyool/booking-service/internal/domain"
	"github.com/theyool/booking-service/pkg/dbmetrics"
	"github.com/theyool/booking-service/pkg/ptr"
	"github.com/theyool/booking-service/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func bookingRow(id uuid.UUID, status domain.BookingStatus) []driver.Value {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return []driver.Value{
		id.String(), "visit", "천안", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), []byte("10:00:00"),
		"홍길동", "010-1234-5678", nil, nil, nil, nil,
		string(status), nil, nil, nil, nil, nil, now, now,
	}
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Booking{
		Type:          domain.ConsultationVisit,
		Office:        ptr.Ptr(domain.OfficeCheonan),
		PreferredDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		PreferredTime: types.MustTimeString("10:00"),
		Status:        domain.StatusPending,
	})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Create_AssignsIDAndTimestamps(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	b, err := repo.Create(context.Background(), &domain.Booking{
		Type:          domain.ConsultationVideo,
		PreferredDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		PreferredTime: types.MustTimeString("13:00"),
		Status:        domain.StatusPending,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, created, b.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_LocksInTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(bookingColumns).AddRow(bookingRow(id, domain.StatusPending)...))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	b, err := repo.GetByID(dbmetrics.WithTx(context.Background(), tx), id)
	require.NoError(t, err)

	assert.Equal(t, id, b.ID)
	assert.Equal(t, "visit:천안", b.Channel().Key())
	assert.Equal(t, "10:00", b.PreferredTime.String())
	assert.Equal(t, domain.StatusPending, b.Status)
	assert.Nil(t, b.Email)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1$`).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_List_ChannelFilter(t *testing.T) {
	repo, mock := newMock(t)
	d := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	ts := types.MustTimeString("10:00")

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE consultation_type = $1 AND office_location IS NULL AND preferred_date >= $2 AND preferred_date <= $3 AND preferred_time = $4 AND status IN ($5,$6)",
	)).
		WithArgs("video", "2025-03-03", "2025-03-03", "10:00", "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	got, err := repo.List(context.Background(), domain.BookingFilter{
		Channel:  ptr.Ptr(domain.VideoChannel()),
		DateFrom: &d,
		DateTo:   &d,
		Time:     &ts,
		Statuses: domain.ActiveStatuses,
	})

	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus_StatusChanged(t *testing.T) {
	repo, mock := newMock(t)
	b := &domain.Booking{ID: uuid.New(), Status: domain.StatusConfirmed}

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.UpdateStatus(context.Background(), b, domain.StatusPending)

	assert.ErrorIs(t, err, ErrStatusChanged)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRepository_Stats(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COUNT(*) FILTER (WHERE status = $1)")).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e"}).AddRow(10, 3, 4, 1, 5))

	stats, err := repo.Stats(context.Background(), time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStats{Total: 10, Pending: 3, Confirmed: 4, Today: 1, ThisWeek: 5}, *stats)
}
