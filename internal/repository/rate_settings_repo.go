package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AJ4200/whatiearn/internal/model"
)

// RateSettingsRepository 时薪设置数据访问接口
type RateSettingsRepository interface {
	// GetOrCreate 读取设置；不存在时以 defaults 插入（并发首读只插入一次）
	GetOrCreate(ctx context.Context, defaults *model.RateSettings) (*model.RateSettings, error)
	Update(ctx context.Context, settings *model.RateSettings) error
}

type rateSettingsRepo struct {
	db *gorm.DB
}

// NewRateSettingsRepo 创建 RateSettingsRepository 实例
func NewRateSettingsRepo(db *gorm.DB) RateSettingsRepository {
	return &rateSettingsRepo{db: db}
}

func (r *rateSettingsRepo) GetOrCreate(ctx context.Context, defaults *model.RateSettings) (*model.RateSettings, error) {
	db := r.db.WithContext(ctx)

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(defaults).Error; err != nil {
		return nil, err
	}

	var settings model.RateSettings
	if err := db.Where("user_id = ?", defaults.UserID).First(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *rateSettingsRepo) Update(ctx context.Context, settings *model.RateSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
