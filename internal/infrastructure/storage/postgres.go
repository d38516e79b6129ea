package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
	"github.com/tripsmith/travel-booking-aggregator/internal/infrastructure/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS bookings (
	id                 UUID PRIMARY KEY,
	user_id            TEXT NOT NULL,
	booking_type       VARCHAR(20) NOT NULL,
	provider           TEXT NOT NULL,
	external_id        TEXT NOT NULL,
	provider_reference TEXT NOT NULL DEFAULT '',
	payment_status     VARCHAR(20) NOT NULL DEFAULT 'pending',
	total_amount       DOUBLE PRECISION NOT NULL DEFAULT 0,
	details            JSONB NOT NULL DEFAULT '{}'::jsonb,
	payment_id         TEXT NOT NULL DEFAULT '',
	payment_url        TEXT NOT NULL DEFAULT '',
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT valid_payment_status CHECK (payment_status IN ('none', 'pending', 'paid', 'failed'))
);
CREATE INDEX IF NOT EXISTS bookings_user_created_idx ON bookings (user_id, created_at DESC);
`

const selectColumns = `id, user_id, booking_type, provider, external_id, provider_reference,
	payment_status, total_amount, details, payment_id, payment_url, created_at, updated_at`

// PostgresStore is a BookingStore backed by Postgres.
type PostgresStore struct {
	db     *sql.DB
	logger *logger.Logger
}

// OpenPostgres connects to dsn, checks the connection and creates the schema.
func OpenPostgres(ctx context.Context, dsn string, log *logger.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := NewPostgresStore(db, log)
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

// NewPostgresStore wraps an open database. The schema is assumed to exist.
func NewPostgresStore(db *sql.DB, log *logger.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger.OrNop(log).WithContext("component", "storage")}
}

// Close closes the database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return err
	}
	s.logger.Debug().Msg("bookings schema ready")
	return nil
}

func (s *PostgresStore) SaveBookingIntent(ctx context.Context, userID string, intent domain.BookingIntent) (string, error) {
	if userID == "" {
		return "", domain.NewValidationError("user_id", "is required")
	}
	details, err := encodeDetails(intent.RawDetails)
	if err != nil {
		return "", err
	}
	status := intent.PaymentStatus
	if status == "" {
		status = domain.PaymentPending
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, user_id, booking_type, provider, external_id, provider_reference,
			payment_status, total_amount, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, userID, string(intent.BookingType), intent.Provider, intent.ExternalID, intent.ProviderReference,
		string(status), intent.TotalAmount, details,
	)
	if err != nil {
		return "", fmt.Errorf("insert booking: %w", err)
	}
	return id, nil
}

// UpdateStatus sets the payment status and merges details into the stored ones.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, details map[string]interface{}) error {
	if err := checkID(id); err != nil {
		return err
	}
	extra, err := encodeDetails(details)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status = $2, details = details || $3::jsonb, updated_at = now()
		WHERE id = $1`,
		id, string(status), extra,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return expectOneRow(res, id)
}

func (s *PostgresStore) AttachPayment(ctx context.Context, id, paymentID, paymentURL string) error {
	if err := checkID(id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings SET payment_id = $2, payment_url = $3, updated_at = now() WHERE id = $1`,
		id, paymentID, paymentURL,
	)
	if err != nil {
		return fmt.Errorf("attach payment: %w", err)
	}
	return expectOneRow(res, id)
}

func (s *PostgresStore) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	if err := checkID(id); err != nil {
		return domain.Booking{}, err
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	if err != nil {
		return domain.Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

// GetBookingsForUser returns the user's bookings, newest first.
func (s *PostgresStore) GetBookingsForUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	out := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner) (domain.Booking, error) {
	var (
		b                   domain.Booking
		bookingType, status string
		details             []byte
	)
	err := row.Scan(&b.ID, &b.UserID, &bookingType, &b.Intent.Provider, &b.Intent.ExternalID,
		&b.Intent.ProviderReference, &status, &b.Intent.TotalAmount, &details,
		&b.PaymentID, &b.PaymentURL, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Booking{}, err
	}
	b.Intent.BookingType = domain.BookingType(bookingType)
	b.Intent.PaymentStatus = domain.PaymentStatus(status)
	if len(details) > 0 {
		if err := json.Unmarshal(details, &b.Intent.RawDetails); err != nil {
			return domain.Booking{}, fmt.Errorf("decode details: %w", err)
		}
		if len(b.Intent.RawDetails) == 0 {
			b.Intent.RawDetails = nil
		}
	}
	return b, nil
}

// encodeDetails returns details as JSON text. lib/pq sends []byte as bytea,
// which does not cast to jsonb.
func encodeDetails(details map[string]interface{}) (string, error) {
	if details == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("encode details: %w", err)
	}
	return string(raw), nil
}

// checkID rejects ids that cannot be a booking before they reach the uuid column.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	return nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, id)
	}
	return nil
}

var _ domain.BookingStore = (*PostgresStore)(nil)
