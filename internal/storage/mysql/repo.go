package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects and pings; the DSN should carry parseTime=true.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return db, nil
}

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	raw, err := json.Marshal(b.Request)
	if err != nil {
		return err
	}
	q := b.Request
	_, err = r.db.ExecContext(ctx, insertBookingSQL,
		b.Reference,
		q.ConsultationType,
		q.Name,
		q.Email,
		q.Phone,
		q.Date,
		q.TimeSlot,
		q.Timezone,
		valStr(q.Notes),
		q.Consent,
		valStr(q.Locale),
		string(b.Status),
		b.CreatedAt.UTC(),
		string(raw),
	)
	return err
}

func (r *Repo) GetBooking(ctx context.Context, reference string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

// ListBookings returns the bookings of one day (YYYY-MM-DD) ordered by slot.
func (r *Repo) ListBookings(ctx context.Context, date string, limit int) ([]domain.Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, listBookingsByDateSQL, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus moves a booking to a new status.
func (r *Repo) UpdateStatus(ctx context.Context, reference string, s domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(s), reference)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type scanner interface{ Scan(dest ...any) error }

func scanBooking(s scanner) (domain.Booking, error) {
	var b domain.Booking
	var notes, locale sql.NullString
	var status string
	if err := s.Scan(
		&b.Reference,
		&b.Request.ConsultationType,
		&b.Request.Name,
		&b.Request.Email,
		&b.Request.Phone,
		&b.Request.Date,
		&b.Request.TimeSlot,
		&b.Request.Timezone,
		&notes,
		&b.Request.Consent,
		&locale,
		&status,
		&b.CreatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	b.Request.Notes = notes.String
	b.Request.Locale = locale.String
	b.Status = domain.BookingStatus(status)
	return b, nil
}
