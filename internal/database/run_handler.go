package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geowall/internal/domain"
)

// SaveRun stores a completed run together with its per-country stats in one
// transaction.
func SaveRun(ctx context.Context, run *domain.ResolutionRun, countries []domain.RunCountry) error {
	if DB == nil {
		return errors.New("database not initialised")
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for i := range countries {
			countries[i].RunID = run.ID
		}
		if len(countries) == 0 {
			return nil
		}
		return tx.Create(&countries).Error
	})
}

// RecentRuns returns the newest runs first, country stats included.
func RecentRuns(ctx context.Context, limit int) ([]domain.ResolutionRun, error) {
	if DB == nil {
		return nil, errors.New("database not initialised")
	}
	if limit <= 0 {
		limit = 10
	}

	db := DB
	if ctx != nil {
		db = db.WithContext(ctx)
	}

	var runs []domain.ResolutionRun
	if err := db.Preload("CountryStats").Order("id DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
