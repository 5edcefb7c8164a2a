package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atvirokodosprendimai/mortgageapi/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/mortgageapi/internal/core/domain"
	"gorm.io/gorm"
)

type rateSheetModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Fingerprint string    `gorm:"column:fingerprint;not null;uniqueIndex"`
	RatesJSON   string    `gorm:"column:rates_json;not null"`
	Source      string    `gorm:"column:source;not null"`
	FetchedAt   time.Time `gorm:"column:fetched_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (rateSheetModel) TableName() string {
	return "rate_sheets"
}

type RateSheetRepository struct {
	db *gormsqlite.DB
}

func NewRateSheetRepository(db *gormsqlite.DB) *RateSheetRepository {
	return &RateSheetRepository{db: db}
}

func (r *RateSheetRepository) Insert(ctx context.Context, sheet domain.RateSheet) (domain.RateSheet, error) {
	encoded, err := json.Marshal(sheet.Table)
	if err != nil {
		return domain.RateSheet{}, fmt.Errorf("encode rate table: %w", err)
	}

	model := rateSheetModel{
		ID:          sheet.ID,
		Fingerprint: sheet.Fingerprint,
		RatesJSON:   string(encoded),
		Source:      sheet.Source,
		FetchedAt:   sheet.FetchedAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}

	err = r.db.WriteTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.RateSheet{}, fmt.Errorf("insert rate sheet: %w", err)
	}

	return toRateSheet(model)
}

func (r *RateSheetRepository) FindByFingerprint(ctx context.Context, fingerprint string) (domain.RateSheet, error) {
	var model rateSheetModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("fingerprint = ?", fingerprint).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RateSheet{}, domain.ErrNotFound
		}
		return domain.RateSheet{}, fmt.Errorf("find rate sheet: %w", err)
	}
	return toRateSheet(model)
}

func (r *RateSheetRepository) Latest(ctx context.Context) (domain.RateSheet, error) {
	var model rateSheetModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Order("fetched_at DESC, created_at DESC").First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RateSheet{}, domain.ErrNotFound
		}
		return domain.RateSheet{}, fmt.Errorf("latest rate sheet: %w", err)
	}
	return toRateSheet(model)
}

func (r *RateSheetRepository) List(ctx context.Context, limit int) ([]domain.RateSheet, error) {
	var models []rateSheetModel
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Model(&rateSheetModel{}).
			Order("fetched_at DESC, created_at DESC").
			Limit(limit).
			Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list rate sheets: %w", err)
	}

	sheets := make([]domain.RateSheet, 0, len(models))
	for _, model := range models {
		sheet, err := toRateSheet(model)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func toRateSheet(model rateSheetModel) (domain.RateSheet, error) {
	var table domain.RateTable
	if err := json.Unmarshal([]byte(model.RatesJSON), &table); err != nil {
		return domain.RateSheet{}, fmt.Errorf("decode rate table for sheet %s: %w", model.ID, err)
	}
	return domain.RateSheet{
		ID:          model.ID,
		Table:       table,
		Fingerprint: model.Fingerprint,
		Source:      model.Source,
		FetchedAt:   model.FetchedAt,
		CreatedAt:   model.CreatedAt,
	}, nil
}
