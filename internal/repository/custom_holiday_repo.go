package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AJ4200/whatiearn/internal/model"
)

// CustomHolidayRepository 自定义节假日数据访问接口
type CustomHolidayRepository interface {
	// Create 同一用户同一日期重复创建返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, holiday *model.CustomHoliday) error
	// CreateIgnoreDuplicates 批量创建，已存在的日期跳过；返回实际插入条数
	CreateIgnoreDuplicates(ctx context.Context, holidays []model.CustomHoliday) (int64, error)
	GetByID(ctx context.Context, userID, id string) (*model.CustomHoliday, error)
	GetByDate(ctx context.Context, userID, date string) (*model.CustomHoliday, error)
	// List from/to 为空时不限
	List(ctx context.Context, userID, from, to string) ([]model.CustomHoliday, error)
	Delete(ctx context.Context, userID, id string) error
}

type customHolidayRepo struct {
	db *gorm.DB
}

// NewCustomHolidayRepo 创建 CustomHolidayRepository 实例
func NewCustomHolidayRepo(db *gorm.DB) CustomHolidayRepository {
	return &customHolidayRepo{db: db}
}

func (r *customHolidayRepo) Create(ctx context.Context, holiday *model.CustomHoliday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

func (r *customHolidayRepo) CreateIgnoreDuplicates(ctx context.Context, holidays []model.CustomHoliday) (int64, error) {
	if len(holidays) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&holidays)
	return res.RowsAffected, res.Error
}

func (r *customHolidayRepo) GetByID(ctx context.Context, userID, id string) (*model.CustomHoliday, error) {
	var h model.CustomHoliday
	err := r.db.WithContext(ctx).
		Where("custom_holiday_id = ? AND user_id = ?", id, userID).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *customHolidayRepo) GetByDate(ctx context.Context, userID, date string) (*model.CustomHoliday, error) {
	var h model.CustomHoliday
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *customHolidayRepo) List(ctx context.Context, userID, from, to string) ([]model.CustomHoliday, error) {
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != "" {
		db = db.Where("date >= ?", from)
	}
	if to != "" {
		db = db.Where("date <= ?", to)
	}

	var holidays []model.CustomHoliday
	err := db.Order("date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *customHolidayRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("custom_holiday_id = ? AND user_id = ?", id, userID).
		Delete(&model.CustomHoliday{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
