package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/venues/internal/model"
)

type venueRow struct {
	Position int `db:"position"`
	model.Venue
}

type scheduleRow struct {
	VenuePosition int          `db:"venue_position"`
	Start         sql.NullTime `db:"start_ts"`
	End           sql.NullTime `db:"end_ts"`
}

const venueColumns = `
	position, id, name, address, city, state, zip, phone, toll_free_phone,
	pcode, latitude, longitude, description, image_url, ticket_link`

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func (r scheduleRow) item() model.ScheduleItem {
	var item model.ScheduleItem
	if r.Start.Valid {
		item.Start = r.Start.Time
	}
	if r.End.Valid {
		item.End = r.End.Time
	}
	return item
}

func (s *pgStore) ReplaceVenues(ctx context.Context, venues []model.Venue) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM venue_schedule;`); err != nil {
		return fmt.Errorf("clear schedule: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM venues;`); err != nil {
		return fmt.Errorf("clear venues: %w", err)
	}

	for pos, v := range venues {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO venues
		(position, id, name, address, city, state, zip, phone, toll_free_phone,
		 pcode, latitude, longitude, description, image_url, ticket_link)
		VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
			pos, v.ID, v.Name, v.Address, v.City, v.State, v.Zip, v.Phone, v.TollFreePhone,
			v.PCode, v.Latitude, v.Longitude, v.Description, v.ImageURL, v.TicketLink,
		)
		if err != nil {
			log.Error().Err(err).Int64("venue_id", v.ID).Msg("ReplaceVenues insert venue failed")
			return fmt.Errorf("insert venue %d: %w", v.ID, err)
		}

		for i, item := range v.Schedule {
			_, err := tx.ExecContext(ctx, `
			INSERT INTO venue_schedule (venue_position, position, start_ts, end_ts)
			VALUES ($1, $2, $3, $4);`,
				pos, i, nullTime(item.Start), nullTime(item.End),
			)
			if err != nil {
				log.Error().Err(err).Int64("venue_id", v.ID).Msg("ReplaceVenues insert schedule failed")
				return fmt.Errorf("insert schedule for venue %d: %w", v.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	log.Info().Int("venues", len(venues)).Msg("venue mirror replaced")
	return nil
}

func (s *pgStore) ListVenues(ctx context.Context) ([]model.Venue, error) {
	var rows []venueRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT`+venueColumns+` FROM venues ORDER BY position;`); err != nil {
		log.Error().Err(err).Msg("ListVenues failed")
		return nil, err
	}

	var schedule []scheduleRow
	if err := s.db.SelectContext(ctx, &schedule, `
	SELECT venue_position, start_ts, end_ts
	  FROM venue_schedule
	 ORDER BY venue_position, position;`); err != nil {
		log.Error().Err(err).Msg("ListVenues schedule failed")
		return nil, err
	}

	byPosition := make(map[int][]model.ScheduleItem)
	for _, r := range schedule {
		byPosition[r.VenuePosition] = append(byPosition[r.VenuePosition], r.item())
	}

	venues := make([]model.Venue, 0, len(rows))
	for _, r := range rows {
		v := r.Venue
		v.Schedule = byPosition[r.Position]
		venues = append(venues, v)
	}
	return venues, nil
}
