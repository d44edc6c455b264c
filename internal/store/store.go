// Package store provides typed queries over the clubs/shots/users tables.
// It is the only package that talks SQL; callers hand it a *sql.DB opened
// by internal/db and get row structs back.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openfairway/rangelog/internal/bag"
)

// ErrNotFound is returned when a row does not exist or belongs to another
// user. Handlers translate it to 404.
var ErrNotFound = errors.New("not found")

// Store wraps a *sql.DB with application queries.
type Store struct {
	db *sql.DB
}

// New creates a Store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping verifies the underlying database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --------------------------------------------------------------------------
// Users
// --------------------------------------------------------------------------

// CreateUser inserts a user and returns its id. A duplicate username
// surfaces as the driver's unique-constraint error.
func (s *Store) CreateUser(ctx context.Context, username, hash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (username, hash) VALUES ($1, $2) RETURNING id`,
		username, hash).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

// GetUserByUsername looks a user up for login.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, hash FROM users WHERE username = $1`,
		username).Scan(&u.ID, &u.Username, &u.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return &u, nil
}

// --------------------------------------------------------------------------
// Clubs
// --------------------------------------------------------------------------

// ListClubs returns a user's clubs in natural bag order.
func (s *Store) ListClubs(ctx context.Context, userID int64) ([]Club, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, loft, notes, COALESCE(bag_order, 999)
		FROM clubs
		WHERE user_id = $1
		ORDER BY COALESCE(bag_order, 999), name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]Club, 0)
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, fmt.Errorf("scan club: %w", err)
		}
		clubs = append(clubs, c)
	}
	return clubs, rows.Err()
}

// GetClub returns one club, scoped to its owner.
func (s *Store) GetClub(ctx context.Context, id, userID int64) (*Club, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, loft, notes, COALESCE(bag_order, 999)
		FROM clubs
		WHERE id = $1 AND user_id = $2`, id, userID)
	c, err := scanClub(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get club %d: %w", id, err)
	}
	return &c, nil
}

// CreateClub inserts a club with its bag order derived from (name, loft).
func (s *Store) CreateClub(ctx context.Context, userID int64, name string, loft *float64, notes string) (*Club, error) {
	order := bag.Order(name, loft)
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO clubs (user_id, name, loft, notes, bag_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		userID, name, nullFloat(loft), nullString(notes), order).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create club: %w", err)
	}
	return &Club{ID: id, UserID: userID, Name: name, Loft: loft, Notes: notes, BagOrder: order}, nil
}

// UpdateClub rewrites a club's fields and recomputes bag_order from the new
// name and loft.
func (s *Store) UpdateClub(ctx context.Context, id, userID int64, name string, loft *float64, notes string) (*Club, error) {
	order := bag.Order(name, loft)
	res, err := s.db.ExecContext(ctx, `
		UPDATE clubs
		SET name = $1, loft = $2, notes = $3, bag_order = $4
		WHERE id = $5 AND user_id = $6`,
		name, nullFloat(loft), nullString(notes), order, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update club %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update club %d: %w", id, err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return &Club{ID: id, UserID: userID, Name: name, Loft: loft, Notes: notes, BagOrder: order}, nil
}

// DeleteClub removes a club and all of its shots in one transaction.
func (s *Store) DeleteClub(ctx context.Context, id, userID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete club %d: %w", id, err)
	}
	defer tx.Rollback()

	// Shots first: the FK has no ON DELETE CASCADE in legacy databases.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM shots
		WHERE club_id = (SELECT id FROM clubs WHERE id = $1 AND user_id = $2)`,
		id, userID); err != nil {
		return fmt.Errorf("delete club %d shots: %w", id, err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM clubs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete club %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete club %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// --------------------------------------------------------------------------
// Shots
// --------------------------------------------------------------------------

// CreateShot logs a shot against one of the user's clubs. Empty result and
// context are stored as NULL, matching how the data has always been kept.
func (s *Store) CreateShot(ctx context.Context, userID, clubID int64, date string, distance float64, result, context string) (int64, error) {
	// The club must belong to the caller.
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM clubs WHERE id = $1 AND user_id = $2`, clubID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("check club %d: %w", clubID, err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO shots (club_id, date, distance, result, context)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		clubID, date, distance, nullString(result), nullString(context)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create shot: %w", err)
	}
	return id, nil
}

// DeleteShot removes a shot if it belongs to one of the user's clubs.
func (s *Store) DeleteShot(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM shots
		WHERE id = $1
		  AND club_id IN (SELECT id FROM clubs WHERE user_id = $2)`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete shot %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shot %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListShots returns a user's shots joined with club name/notes/bag order,
// newest first within bag order. Pass date as YYYY-MM-DD to filter to a
// single day, or "" for all shots. This is the row set the stats and chart
// engines consume.
func (s *Store) ListShots(ctx context.Context, userID int64, date string) ([]ShotWithClub, error) {
	query := `
		SELECT shots.id,
		       shots.club_id,
		       shots.date,
		       shots.distance,
		       COALESCE(shots.result, ''),
		       COALESCE(shots.context, ''),
		       clubs.name,
		       COALESCE(clubs.notes, ''),
		       COALESCE(clubs.bag_order, 999)
		FROM shots
		JOIN clubs ON shots.club_id = clubs.id
		WHERE clubs.user_id = $1`
	args := []any{userID}
	if date != "" {
		query += ` AND shots.date = $2`
		args = append(args, date)
	}
	query += `
		ORDER BY COALESCE(clubs.bag_order, 999), shots.date DESC, shots.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	defer rows.Close()

	shots := make([]ShotWithClub, 0)
	for rows.Next() {
		var sh ShotWithClub
		if err := rows.Scan(
			&sh.ID, &sh.ClubID, &sh.Date, &sh.Distance,
			&sh.Result, &sh.Context,
			&sh.ClubName, &sh.ClubNotes, &sh.BagOrder,
		); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		shots = append(shots, sh)
	}
	return shots, rows.Err()
}

// --------------------------------------------------------------------------
// Scan helpers
// --------------------------------------------------------------------------

type scanner interface {
	Scan(dest ...any) error
}

func scanClub(row scanner) (Club, error) {
	var c Club
	var loft sql.NullFloat64
	var notes sql.NullString
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &loft, &notes, &c.BagOrder); err != nil {
		return Club{}, err
	}
	if loft.Valid {
		v := loft.Float64
		c.Loft = &v
	}
	c.Notes = notes.String
	return c, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}
