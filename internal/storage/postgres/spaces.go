package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"playgrounds/internal/events"
	"playgrounds/internal/models"
)

var (
	ErrAlreadyRated = errors.New("space already rated by this user")

	// ErrRatingNotAllowed is returned when the user has no finished event at
	// the space to base a rating on.
	ErrRatingNotAllowed = errors.New("rating requires participation in a finished event at this space")
)

func (s *Storage) GetSpace(ctx context.Context, id int64) (*models.Space, error) {
	var sp models.Space
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, address, latitude, longitude, is_accessible, average_rating
		FROM spaces
		WHERE id = $1 AND is_active = TRUE`,
		id,
	).Scan(&sp.ID, &sp.Name, &sp.Address, &sp.Latitude, &sp.Longitude, &sp.IsAccessible, &sp.AverageRating)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, events.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT st.id, st.name
		FROM sports st
		JOIN space_sports ss ON ss.sport_id = st.id
		WHERE ss.space_id = $1
		ORDER BY st.id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get space sports: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sport models.Sport
		if err := rows.Scan(&sport.ID, &sport.Name); err != nil {
			return nil, fmt.Errorf("failed to scan sport: %w", err)
		}
		sp.Sports = append(sp.Sports, sport)
	}

	return &sp, rows.Err()
}

func (s *Storage) GetSport(ctx context.Context, id int64) (*models.Sport, error) {
	var sport models.Sport
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name FROM sports WHERE id = $1`,
		id,
	).Scan(&sport.ID, &sport.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, events.ErrSportNotFound
		}
		return nil, fmt.Errorf("failed to get sport: %w", err)
	}
	return &sport, nil
}

// hasFinishedParticipation reports whether the user took part in a FINISHED
// event at the space. This is the eligibility gate for ratings.
func hasFinishedParticipation(ctx context.Context, q querier, spaceID, userID int64) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1
			FROM events e
			JOIN event_participants ep ON ep.event_id = e.id
			WHERE e.space_id = $1 AND ep.user_id = $2 AND e.status = $3
		)`,
		spaceID, userID, models.StatusFinished,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("failed to check finished participation: %w", err)
	}
	return ok, nil
}

// CanRateSpace mirrors the checks CreateSpaceRating enforces, for the
// read-only eligibility endpoint.
func (s *Storage) CanRateSpace(ctx context.Context, spaceID, userID int64) (bool, string, error) {
	var rated bool
	err := s.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM space_ratings WHERE space_id = $1 AND user_id = $2)`,
		spaceID, userID,
	).Scan(&rated)
	if err != nil {
		return false, "", fmt.Errorf("failed to check existing rating: %w", err)
	}
	if rated {
		return false, "space already rated", nil
	}

	participated, err := hasFinishedParticipation(ctx, s.DB, spaceID, userID)
	if err != nil {
		return false, "", err
	}
	if !participated {
		return false, "no finished event participation at this space", nil
	}

	return true, "", nil
}

func (s *Storage) CreateSpaceRating(ctx context.Context, spaceID int64, user models.User, rating int, comment string) (*models.SpaceRating, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	participated, err := hasFinishedParticipation(ctx, tx, spaceID, user.ID)
	if err != nil {
		return nil, err
	}
	if !participated {
		return nil, ErrRatingNotAllowed
	}

	r := &models.SpaceRating{
		SpaceID: spaceID,
		User:    user,
		Rating:  rating,
		Comment: comment,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO space_ratings (space_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (space_id, user_id) DO NOTHING
		RETURNING id, created_at`,
		spaceID, user.ID, rating, comment,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyRated
		}
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	// Keep the denormalized average in step with the new rating.
	if _, err := tx.ExecContext(ctx, `
		UPDATE spaces
		SET average_rating = (SELECT AVG(rating) FROM space_ratings WHERE space_id = $1)
		WHERE id = $1`,
		spaceID,
	); err != nil {
		return nil, fmt.Errorf("failed to recalculate space average: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r, nil
}

func (s *Storage) ListSpaceRatings(ctx context.Context, spaceID int64) ([]models.SpaceRating, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, r.space_id, r.rating, COALESCE(r.comment, ''), r.created_at,
		       u.id, u.name, u.email, u.role
		FROM space_ratings r
		JOIN users u ON u.id = r.user_id
		WHERE r.space_id = $1
		ORDER BY r.created_at DESC`,
		spaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.SpaceRating
	for rows.Next() {
		var r models.SpaceRating
		if err := rows.Scan(
			&r.ID, &r.SpaceID, &r.Rating, &r.Comment, &r.CreatedAt,
			&r.User.ID, &r.User.Name, &r.User.Email, &r.User.Role,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}

	return ratings, rows.Err()
}
