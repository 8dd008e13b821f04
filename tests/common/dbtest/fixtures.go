//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"reservation-engine/internal/domain/inventory"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func InsertExcursion(t *testing.T, db DBLike, e *inventory.Excursion) uuid.UUID {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO excursions (id, title, price_per_guest_cents, max_guests, guests_booked, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Title, e.PricePerGuestCents, e.MaxGuests, e.GuestsBooked, e.StartAt, e.EndAt, string(e.Status))
	require.NoError(t, err)
	return e.ID
}

func InsertFlight(t *testing.T, db DBLike, f *inventory.Flight) uuid.UUID {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO flights (id, flight_number, price_per_seat_cents, capacity, seats_available, departure_at, arrival_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.FlightNumber, f.PricePerSeatCents, f.Capacity, f.SeatsAvailable, f.DepartureAt, f.ArrivalAt, string(f.Status))
	require.NoError(t, err)
	return f.ID
}

func InsertRoom(t *testing.T, db DBLike, r *inventory.Room) uuid.UUID {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO rooms (id, hotel_name, room_type, price_per_night_cents, capacity, total_rooms)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ID, r.HotelName, r.RoomType, r.PricePerNightCents, r.Capacity, r.TotalRooms)
	require.NoError(t, err)
	return r.ID
}

// ExcursionGuestsBooked reads the stored running counter.
func ExcursionGuestsBooked(t *testing.T, db DBLike, id uuid.UUID) int {
	t.Helper()

	var booked int
	err := db.QueryRow(context.Background(), "SELECT guests_booked FROM excursions WHERE id = $1", id).Scan(&booked)
	require.NoError(t, err)
	return booked
}

func FlightSeatsAvailable(t *testing.T, db DBLike, id uuid.UUID) int {
	t.Helper()

	var available int
	err := db.QueryRow(context.Background(), "SELECT seats_available FROM flights WHERE id = $1", id).Scan(&available)
	require.NoError(t, err)
	return available
}

func ReservationStatus(t *testing.T, db DBLike, id uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), "SELECT status FROM reservations WHERE id = $1", id).Scan(&status)
	require.NoError(t, err)
	return status
}

// ForceDeadline moves a reservation's payment deadline, e.g. into the past for sweeper tests.
func ForceDeadline(t *testing.T, db DBLike, id uuid.UUID, deadline time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(), "UPDATE reservations SET payment_deadline = $2 WHERE id = $1", id, deadline)
	require.NoError(t, err)
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables except the migration ledger
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
