package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pubfit/membership-api/internal/core/domain"
	"github.com/pubfit/membership-api/internal/core/ports"
)

// NutritionRepository implements ports.NutritionRepository on nutrition_data.
type NutritionRepository struct {
	db DBTX
}

func NewNutritionRepository(db DBTX) *NutritionRepository {
	return &NutritionRepository{db: db}
}

func (r *NutritionRepository) Get(ctx context.Context, userID, date string) (*domain.NutritionEntry, error) {
	e := domain.NutritionEntry{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD'), breakfast, lunch, snacks, dinner,
		        calories, carbs, proteins, fats, water
		   FROM nutrition_data
		  WHERE user_id = $1 AND date = $2::date`,
		userID, date,
	).Scan(&e.Date, &e.Breakfast, &e.Lunch, &e.Snacks, &e.Dinner,
		&e.Calories, &e.Carbs, &e.Proteins, &e.Fats, &e.Water)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNutritionNotFound
		}
		return nil, storageErr("get nutrition", err)
	}
	return &e, nil
}

// Upsert replaces the whole entry for (user, date).
func (r *NutritionRepository) Upsert(ctx context.Context, e *domain.NutritionEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO nutrition_data (user_id, date, breakfast, lunch, snacks, dinner,
		                             calories, carbs, proteins, fats, water)
		 VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (user_id, date) DO UPDATE
		    SET breakfast = EXCLUDED.breakfast, lunch = EXCLUDED.lunch,
		        snacks = EXCLUDED.snacks, dinner = EXCLUDED.dinner,
		        calories = EXCLUDED.calories, carbs = EXCLUDED.carbs,
		        proteins = EXCLUDED.proteins, fats = EXCLUDED.fats, water = EXCLUDED.water`,
		e.UserID, e.Date, e.Breakfast, e.Lunch, e.Snacks, e.Dinner,
		e.Calories, e.Carbs, e.Proteins, e.Fats, e.Water,
	)
	if err != nil {
		return storageErr("upsert nutrition", err)
	}
	return nil
}

func (r *NutritionRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM nutrition_data WHERE user_id = $1`, userID); err != nil {
		return storageErr("delete nutrition", err)
	}
	return nil
}

var _ ports.NutritionRepository = (*NutritionRepository)(nil)
