package repository

import (
	"context"
	"errors"

	"github.com/cineverse/booking-platform/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetById(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT
			s.id,
			s.movie_id,
			m.title,
			s.theatre_id,
			t.name,
			s.show_date,
			s.show_time,
			s.price
		FROM shows s
		JOIN movies m ON s.movie_id = m.id
		JOIN theatres t ON s.theatre_id = t.id
		WHERE s.id = $1
	`

	var show domain.Show

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.MovieName,
		&show.TheatreID,
		&show.TheatreName,
		&show.ShowDate,
		&show.ShowTime,
		&show.Price,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}
