package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"playgrounds/internal/config"
	"playgrounds/internal/events"
	"playgrounds/internal/models"
)

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// querier lets the event loaders run both on the pool and inside a transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const eventColumns = `
	e.id, e.title, e.description, e.date_time, e.status,
	e.min_participants, e.max_participants, e.created_at,
	c.id, c.name, c.email, c.role,
	sp.id, sp.name, sp.address, sp.latitude, sp.longitude, sp.is_accessible, sp.average_rating,
	st.id, st.name`

const eventJoins = `
	FROM events e
	JOIN users c ON c.id = e.creator_id
	JOIN spaces sp ON sp.id = e.space_id
	JOIN sports st ON st.id = e.sport_id`

func scanEvent(row interface{ Scan(dest ...any) error }) (*models.Event, error) {
	var e models.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.DateTime, &e.Status,
		&e.MinParticipants, &e.MaxParticipants, &e.CreatedAt,
		&e.Creator.ID, &e.Creator.Name, &e.Creator.Email, &e.Creator.Role,
		&e.Space.ID, &e.Space.Name, &e.Space.Address, &e.Space.Latitude,
		&e.Space.Longitude, &e.Space.IsAccessible, &e.Space.AverageRating,
		&e.Sport.ID, &e.Sport.Name,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Storage) loadParticipants(ctx context.Context, q querier, eventID int64) ([]models.User, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT u.id, u.name, u.email, u.role
		FROM users u
		JOIN event_participants ep ON ep.user_id = u.id
		WHERE ep.event_id = $1
		ORDER BY u.id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// getEvent loads an event with creator, space, sport and participants. When
// forUpdate is set the event row is locked for the rest of the transaction.
func (s *Storage) getEvent(ctx context.Context, q querier, id int64, forUpdate bool) (*models.Event, error) {
	query := "SELECT" + eventColumns + eventJoins + " WHERE e.id = $1"
	if forUpdate {
		query += " FOR UPDATE OF e"
	}

	e, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, events.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	e.Participants, err = s.loadParticipants(ctx, q, id)
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Storage) CreateEvent(ctx context.Context, e *models.Event) (int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO events (title, description, date_time, status, min_participants, max_participants, creator_id, space_id, sport_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		e.Title, e.Description, e.DateTime, e.Status,
		e.MinParticipants, e.MaxParticipants, e.Creator.ID, e.Space.ID, e.Sport.ID,
	).Scan(&id, &e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create event: %w", err)
	}

	// The creator is a participant from the first moment.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)`,
		id, e.Creator.ID,
	); err != nil {
		return 0, fmt.Errorf("failed to add creator as participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return id, nil
}

func (s *Storage) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	return s.getEvent(ctx, s.DB, id, false)
}

// AddParticipant admits a user under a row-level lock. The join rules are
// re-evaluated on the locked snapshot so two concurrent joins can never both
// observe free capacity; the CONFIRMED flip happens in the same transaction.
func (s *Storage) AddParticipant(ctx context.Context, eventID, userID int64) (*models.Event, bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	e, err := s.getEvent(ctx, tx, eventID, true)
	if err != nil {
		return nil, false, err
	}

	if err := events.CanJoin(e, userID); err != nil {
		return nil, false, err
	}

	var joined models.User
	err = tx.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM users WHERE id = $1`,
		userID,
	).Scan(&joined.ID, &joined.Name, &joined.Email, &joined.Role)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get joining user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO event_participants (event_id, user_id) VALUES ($1, $2)`,
		eventID, userID,
	); err != nil {
		return nil, false, fmt.Errorf("failed to add participant: %w", err)
	}
	e.Participants = append(e.Participants, joined)

	confirmed := false
	if events.ShouldConfirm(e) {
		if _, err := tx.ExecContext(ctx,
			`UPDATE events SET status = $1 WHERE id = $2`,
			models.StatusConfirmed, eventID,
		); err != nil {
			return nil, false, fmt.Errorf("failed to confirm event: %w", err)
		}
		e.Status = models.StatusConfirmed
		confirmed = true
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return e, confirmed, nil
}

func (s *Storage) RemoveParticipant(ctx context.Context, eventID, userID int64) (*models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	e, err := s.getEvent(ctx, tx, eventID, true)
	if err != nil {
		return nil, err
	}

	if err := events.CanLeave(e, userID, time.Now()); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	); err != nil {
		return nil, fmt.Errorf("failed to remove participant: %w", err)
	}

	remaining := e.Participants[:0]
	for _, p := range e.Participants {
		if p.ID != userID {
			remaining = append(remaining, p)
		}
	}
	e.Participants = remaining

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return e, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, eventID, userID int64, patch models.EventPatch) (*models.Event, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	e, err := s.getEvent(ctx, tx, eventID, true)
	if err != nil {
		return nil, err
	}

	if err := events.CanUpdate(e, userID, patch); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.DateTime != nil {
		e.DateTime = *patch.DateTime
	}
	if patch.MinParticipants != nil {
		e.MinParticipants = *patch.MinParticipants
	}
	if patch.MaxParticipants != nil {
		e.MaxParticipants = *patch.MaxParticipants
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE events
		SET title = $1, description = $2, date_time = $3, min_participants = $4, max_participants = $5
		WHERE id = $6`,
		e.Title, e.Description, e.DateTime, e.MinParticipants, e.MaxParticipants, eventID,
	); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return e, nil
}

// SetStatus performs a compare-and-set on the event status. It reports false
// when the event was no longer in the expected status, which makes repeated
// transitions (a second cancel, a re-run sweep) no-ops.
func (s *Storage) SetStatus(ctx context.Context, eventID int64, from, to models.EventStatus) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`UPDATE events SET status = $1 WHERE id = $2 AND status = $3`,
		to, eventID, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to set event status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

func (s *Storage) ListEvents(ctx context.Context, filter models.EventFilter) (*models.EventPage, error) {
	conds := []string{"TRUE"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		conds = append(conds, "e.status = ANY("+arg(pq.Array(statuses))+")")
	}
	if filter.FutureOnly {
		conds = append(conds, "e.date_time > NOW()")
	}
	if len(filter.SportIDs) > 0 {
		conds = append(conds, "e.sport_id = ANY("+arg(pq.Array(filter.SportIDs))+")")
	}
	if filter.SpaceID > 0 {
		conds = append(conds, "e.space_id = "+arg(filter.SpaceID))
	}
	if filter.ParticipantID > 0 {
		conds = append(conds, "EXISTS (SELECT 1 FROM event_participants ep WHERE ep.event_id = e.id AND ep.user_id = "+arg(filter.ParticipantID)+")")
	}
	if filter.MinLat != nil {
		conds = append(conds, "sp.latitude >= "+arg(*filter.MinLat))
	}
	if filter.MaxLat != nil {
		conds = append(conds, "sp.latitude <= "+arg(*filter.MaxLat))
	}
	if filter.MinLng != nil {
		conds = append(conds, "sp.longitude >= "+arg(*filter.MinLng))
	}
	if filter.MaxLng != nil {
		conds = append(conds, "sp.longitude <= "+arg(*filter.MaxLng))
	}

	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := s.DB.QueryRowContext(ctx,
		"SELECT COUNT(*)"+eventJoins+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	page := filter.Page
	if page < 0 {
		page = 0
	}

	query := "SELECT" + eventColumns + eventJoins + where +
		" ORDER BY e.date_time ASC LIMIT " + arg(pageSize) + " OFFSET " + arg(page*pageSize)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	for i := range list {
		list[i].Participants, err = s.loadParticipants(ctx, s.DB, list[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return &models.EventPage{
		Events:   list,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (s *Storage) eventsByStatusAndTime(ctx context.Context, cond string, args ...any) ([]models.Event, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT"+eventColumns+eventJoins+" WHERE "+cond, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var list []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	for i := range list {
		list[i].Participants, err = s.loadParticipants(ctx, s.DB, list[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return list, nil
}

func (s *Storage) EventsNearingStart(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	return s.eventsByStatusAndTime(ctx,
		"e.status = $1 AND e.date_time > $2 AND e.date_time <= $3",
		models.StatusAvailable, from, to,
	)
}

func (s *Storage) EventsPastStart(ctx context.Context, now time.Time) ([]models.Event, error) {
	return s.eventsByStatusAndTime(ctx,
		"e.status = ANY($1) AND e.date_time < $2",
		pq.Array([]string{string(models.StatusAvailable), string(models.StatusConfirmed)}), now,
	)
}

func (s *Storage) SpaceRegulars(ctx context.Context, spaceID, excludeUserID int64) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT DISTINCT u.id, u.name, u.email, u.role
		FROM users u
		JOIN event_participants ep ON ep.user_id = u.id
		JOIN events e ON e.id = ep.event_id
		WHERE e.space_id = $1 AND u.id <> $2
		ORDER BY u.id`,
		spaceID, excludeUserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get space regulars: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
