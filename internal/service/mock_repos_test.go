package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/AJ4200/whatiearn/internal/model"
	"github.com/AJ4200/whatiearn/internal/repository"
)

// ── Mock 聚合 ──

type mockRepos struct {
	users    *mockUserRepo
	records  *mockWorkRecordRepo
	holidays *mockCustomHolidayRepo
	settings *mockRateSettingsRepo
}

func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		users:    newMockUserRepo(),
		records:  newMockWorkRecordRepo(),
		holidays: newMockCustomHolidayRepo(),
		settings: newMockRateSettingsRepo(),
	}
	return &repository.Repository{
		User:          m.users,
		WorkRecord:    m.records,
		CustomHoliday: m.holidays,
		RateSettings:  m.settings,
	}, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user_id
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []model.User
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return page(all, offset, limit), int64(len(all)), nil
}

// ── Mock WorkRecordRepository ──

type mockWorkRecordRepo struct {
	mu      sync.Mutex
	records map[string]*model.WorkRecord
	seq     int
}

func newMockWorkRecordRepo() *mockWorkRecordRepo {
	return &mockWorkRecordRepo{records: make(map[string]*model.WorkRecord)}
}

func (m *mockWorkRecordRepo) Create(_ context.Context, record *model.WorkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if record.IsActive {
		for _, r := range m.records {
			if r.UserID == record.UserID && r.IsActive {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if record.WorkRecordID == "" {
		m.seq++
		record.WorkRecordID = fmt.Sprintf("rec-%d", m.seq)
	}
	cp := *record
	m.records[record.WorkRecordID] = &cp
	return nil
}

func (m *mockWorkRecordRepo) GetByID(_ context.Context, userID, id string) (*model.WorkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok && r.UserID == userID {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkRecordRepo) GetActive(_ context.Context, userID string) (*model.WorkRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.UserID == userID && r.IsActive {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkRecordRepo) GetCompletedByDate(_ context.Context, userID, date string) (*model.WorkRecord, error) {
	list := m.filter(userID, repository.WorkRecordFilter{From: date, To: date, CompletedOnly: true})
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &list[0], nil
}

func (m *mockWorkRecordRepo) List(_ context.Context, userID string, f repository.WorkRecordFilter) ([]model.WorkRecord, error) {
	return m.filter(userID, f), nil
}

func (m *mockWorkRecordRepo) ListPaged(_ context.Context, userID string, f repository.WorkRecordFilter, offset, limit int) ([]model.WorkRecord, int64, error) {
	all := m.filter(userID, f)
	// 与实现一致：按日期倒序
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return page(all, offset, limit), int64(len(all)), nil
}

func (m *mockWorkRecordRepo) Update(_ context.Context, record *model.WorkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *record
	m.records[record.WorkRecordID] = &cp
	return nil
}

func (m *mockWorkRecordRepo) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok && r.UserID == userID {
		delete(m.records, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

// filter 按 date、clock_in 升序返回
func (m *mockWorkRecordRepo) filter(userID string, f repository.WorkRecordFilter) []model.WorkRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.WorkRecord
	for _, r := range m.records {
		switch {
		case r.UserID != userID,
			f.From != "" && r.Date < f.From,
			f.To != "" && r.Date > f.To,
			f.WorkType != "" && r.WorkType != f.WorkType,
			f.CompletedOnly && r.IsActive:
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ClockIn.Before(out[j].ClockIn)
	})
	return out
}

// ── Mock CustomHolidayRepository ──

type mockCustomHolidayRepo struct {
	mu       sync.Mutex
	holidays map[string]*model.CustomHoliday
	seq      int
}

func newMockCustomHolidayRepo() *mockCustomHolidayRepo {
	return &mockCustomHolidayRepo{holidays: make(map[string]*model.CustomHoliday)}
}

func (m *mockCustomHolidayRepo) Create(_ context.Context, holiday *model.CustomHoliday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(holiday)
}

func (m *mockCustomHolidayRepo) insert(holiday *model.CustomHoliday) error {
	for _, h := range m.holidays {
		if h.UserID == holiday.UserID && h.Date == holiday.Date {
			return gorm.ErrDuplicatedKey
		}
	}
	if holiday.CustomHolidayID == "" {
		m.seq++
		holiday.CustomHolidayID = fmt.Sprintf("hol-%d", m.seq)
	}
	cp := *holiday
	m.holidays[holiday.CustomHolidayID] = &cp
	return nil
}

func (m *mockCustomHolidayRepo) CreateIgnoreDuplicates(_ context.Context, holidays []model.CustomHoliday) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range holidays {
		if err := m.insert(&holidays[i]); err == nil {
			n++
		}
	}
	return n, nil
}

func (m *mockCustomHolidayRepo) GetByID(_ context.Context, userID, id string) (*model.CustomHoliday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.holidays[id]; ok && h.UserID == userID {
		cp := *h
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomHolidayRepo) GetByDate(_ context.Context, userID, date string) (*model.CustomHoliday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range m.holidays {
		if h.UserID == userID && h.Date == date {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomHolidayRepo) List(_ context.Context, userID, from, to string) ([]model.CustomHoliday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CustomHoliday
	for _, h := range m.holidays {
		if h.UserID != userID || (from != "" && h.Date < from) || (to != "" && h.Date > to) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *mockCustomHolidayRepo) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.holidays[id]; ok && h.UserID == userID {
		delete(m.holidays, id)
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock RateSettingsRepository ──

type mockRateSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*model.RateSettings
}

func newMockRateSettingsRepo() *mockRateSettingsRepo {
	return &mockRateSettingsRepo{settings: make(map[string]*model.RateSettings)}
}

func (m *mockRateSettingsRepo) GetOrCreate(_ context.Context, defaults *model.RateSettings) (*model.RateSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.settings[defaults.UserID]
	if !ok {
		cp := *defaults
		s = &cp
		m.settings[defaults.UserID] = s
	}
	out := *s
	return &out, nil
}

func (m *mockRateSettingsRepo) Update(_ context.Context, settings *model.RateSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *settings
	m.settings[settings.UserID] = &cp
	return nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
