package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/model"
)

// WorkRecordFilter 记录查询条件（日期为 YYYY-MM-DD，闭区间；空值不过滤）
type WorkRecordFilter struct {
	From     string
	To       string
	WorkType string
	// CompletedOnly 仅返回已下班的记录
	CompletedOnly bool
}

// WorkRecordRepository 工作记录数据访问接口
type WorkRecordRepository interface {
	// Create 创建记录；已有进行中记录时再创建进行中记录返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, record *model.WorkRecord) error
	GetByID(ctx context.Context, userID, id string) (*model.WorkRecord, error)
	GetActive(ctx context.Context, userID string) (*model.WorkRecord, error)
	// GetCompletedByDate 当天最早的一条已完成记录
	GetCompletedByDate(ctx context.Context, userID, date string) (*model.WorkRecord, error)
	List(ctx context.Context, userID string, f WorkRecordFilter) ([]model.WorkRecord, error)
	ListPaged(ctx context.Context, userID string, f WorkRecordFilter, offset, limit int) ([]model.WorkRecord, int64, error)
	Update(ctx context.Context, record *model.WorkRecord) error
	Delete(ctx context.Context, userID, id string) error
}

type workRecordRepo struct {
	db *gorm.DB
}

// NewWorkRecordRepo 创建 WorkRecordRepository 实例
func NewWorkRecordRepo(db *gorm.DB) WorkRecordRepository {
	return &workRecordRepo{db: db}
}

func (r *workRecordRepo) Create(ctx context.Context, record *model.WorkRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *workRecordRepo) GetByID(ctx context.Context, userID, id string) (*model.WorkRecord, error) {
	var rec model.WorkRecord
	err := r.db.WithContext(ctx).
		Where("work_record_id = ? AND user_id = ?", id, userID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *workRecordRepo) GetActive(ctx context.Context, userID string) (*model.WorkRecord, error) {
	var rec model.WorkRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *workRecordRepo) GetCompletedByDate(ctx context.Context, userID, date string) (*model.WorkRecord, error) {
	var rec model.WorkRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND is_active = ?", userID, date, false).
		Order("clock_in ASC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *workRecordRepo) List(ctx context.Context, userID string, f WorkRecordFilter) ([]model.WorkRecord, error) {
	var records []model.WorkRecord
	err := r.filtered(ctx, userID, f).
		Order("date ASC, clock_in ASC").
		Find(&records).Error
	return records, err
}

func (r *workRecordRepo) ListPaged(ctx context.Context, userID string, f WorkRecordFilter, offset, limit int) ([]model.WorkRecord, int64, error) {
	var records []model.WorkRecord
	var total int64

	if err := r.filtered(ctx, userID, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.filtered(ctx, userID, f).
		Order("date DESC, clock_in DESC").
		Offset(offset).Limit(limit).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *workRecordRepo) Update(ctx context.Context, record *model.WorkRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *workRecordRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("work_record_id = ? AND user_id = ?", id, userID).
		Delete(&model.WorkRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *workRecordRepo) filtered(ctx context.Context, userID string, f WorkRecordFilter) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.WorkRecord{}).Where("user_id = ?", userID)
	if f.From != "" {
		db = db.Where("date >= ?", f.From)
	}
	if f.To != "" {
		db = db.Where("date <= ?", f.To)
	}
	if f.WorkType != "" {
		db = db.Where("work_type = ?", f.WorkType)
	}
	if f.CompletedOnly {
		db = db.Where("is_active = ?", false)
	}
	return db
}
