package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mews-mentor/backend/internal/model"
	"mews-mentor/backend/internal/repository"
	pkgerrors "mews-mentor/backend/pkg/errors"
)

// ── 测试用 Repository 聚合 ──

// testRepos 聚合所有 mock repo 便于 seed 数据
type testRepos struct {
	user          *mockUserRepo
	cohort        *mockCohortRepo
	participant   *mockParticipantRepo
	matchingModel *mockMatchingModelRepo
	manualBoard   *mockManualBoardRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:          newMockUserRepo(),
		cohort:        newMockCohortRepo(),
		participant:   newMockParticipantRepo(),
		matchingModel: newMockMatchingModelRepo(),
		manualBoard:   newMockManualBoardRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:          r.user,
		Cohort:        r.cohort,
		Participant:   r.participant,
		MatchingModel: r.matchingModel,
		ManualBoard:   r.manualBoard,
	}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock CohortRepository ──

type mockCohortRepo struct {
	cohorts   map[string]*model.Cohort
	idCounter int
}

func newMockCohortRepo() *mockCohortRepo {
	return &mockCohortRepo{cohorts: make(map[string]*model.Cohort)}
}

func (m *mockCohortRepo) Create(_ context.Context, cohort *model.Cohort) error {
	if cohort.CohortID == "" {
		m.idCounter++
		cohort.CohortID = fmt.Sprintf("cohort-%d", m.idCounter)
	}
	if cohort.Version == 0 {
		cohort.Version = 1
	}
	m.cohorts[cohort.CohortID] = cohort
	return nil
}

func (m *mockCohortRepo) GetByID(_ context.Context, id string) (*model.Cohort, error) {
	if c, ok := m.cohorts[id]; ok {
		// 模拟 GORM 每次查询返回新实例, 避免测试间共享可变状态
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCohortRepo) List(_ context.Context, offset, limit int) ([]model.Cohort, int64, error) {
	var result []model.Cohort
	for _, c := range m.cohorts {
		result = append(result, *c)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockCohortRepo) SaveMatches(_ context.Context, cohort *model.Cohort) error {
	stored, ok := m.cohorts[cohort.CohortID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != cohort.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Matches = cohort.Matches
	stored.UpdatedBy = cohort.UpdatedBy
	stored.Version++
	cohort.Version = stored.Version
	return nil
}

// ── Mock ParticipantRepository ──

type mockParticipantRepo struct {
	participants []model.Participant
	idCounter    int
}

func newMockParticipantRepo() *mockParticipantRepo {
	return &mockParticipantRepo{}
}

func (m *mockParticipantRepo) Create(_ context.Context, p *model.Participant) error {
	if p.ParticipantID == "" {
		m.idCounter++
		p.ParticipantID = fmt.Sprintf("p-%d", m.idCounter)
	}
	m.participants = append(m.participants, *p)
	return nil
}

func (m *mockParticipantRepo) BatchCreate(_ context.Context, ps []model.Participant) error {
	for i := range ps {
		if ps[i].ParticipantID == "" {
			m.idCounter++
			ps[i].ParticipantID = fmt.Sprintf("p-%d", m.idCounter)
		}
	}
	m.participants = append(m.participants, ps...)
	return nil
}

func (m *mockParticipantRepo) GetByID(_ context.Context, id string) (*model.Participant, error) {
	for i := range m.participants {
		if m.participants[i].ParticipantID == id {
			return &m.participants[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockParticipantRepo) ListByCohort(_ context.Context, cohortID string) ([]model.Participant, error) {
	var result []model.Participant
	for _, p := range m.participants {
		if p.CohortID == cohortID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockParticipantRepo) ListByCohortAndRole(_ context.Context, cohortID, role string) ([]model.Participant, error) {
	var result []model.Participant
	for _, p := range m.participants {
		if p.CohortID == cohortID && p.Role == role {
			result = append(result, p)
		}
	}
	return result, nil
}

// ── Mock MatchingModelRepository ──

type mockMatchingModelRepo struct {
	models    map[string]*model.MatchingModel
	idCounter int
}

func newMockMatchingModelRepo() *mockMatchingModelRepo {
	// 计数器从 100 起步, 避免与测试手工播种的 model-1 等 ID 冲突
	return &mockMatchingModelRepo{models: make(map[string]*model.MatchingModel), idCounter: 100}
}

func (m *mockMatchingModelRepo) Create(_ context.Context, mm *model.MatchingModel) error {
	if mm.ModelID == "" {
		m.idCounter++
		mm.ModelID = fmt.Sprintf("model-%d", m.idCounter)
	}
	if mm.Version == 0 {
		mm.Version = 1
	}
	m.models[mm.ModelID] = mm
	return nil
}

func (m *mockMatchingModelRepo) GetByID(_ context.Context, id string) (*model.MatchingModel, error) {
	if mm, ok := m.models[id]; ok {
		cp := *mm
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMatchingModelRepo) GetDefault(_ context.Context) (*model.MatchingModel, error) {
	for _, mm := range m.models {
		if mm.IsDefault {
			cp := *mm
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMatchingModelRepo) List(_ context.Context, status string, _, _ int) ([]model.MatchingModel, int64, error) {
	var result []model.MatchingModel
	for _, mm := range m.models {
		if status != "" && mm.Status != status {
			continue
		}
		result = append(result, *mm)
	}
	return result, int64(len(result)), nil
}

func (m *mockMatchingModelRepo) Update(_ context.Context, mm *model.MatchingModel) error {
	stored, ok := m.models[mm.ModelID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != mm.Version {
		return pkgerrors.ErrOptimisticLock
	}
	mm.Version++
	cp := *mm
	m.models[mm.ModelID] = &cp
	return nil
}

func (m *mockMatchingModelRepo) ClearDefault(_ context.Context) error {
	for _, mm := range m.models {
		if mm.IsDefault {
			mm.IsDefault = false
			mm.Version++
		}
	}
	return nil
}

func (m *mockMatchingModelRepo) LatestVersionByName(_ context.Context, name string) (int, error) {
	maxVersion := 0
	for _, mm := range m.models {
		if mm.Name == name && mm.ModelVersion > maxVersion {
			maxVersion = mm.ModelVersion
		}
	}
	return maxVersion, nil
}

// ── Mock ManualBoardRepository ──

type mockManualBoardRepo struct {
	boards    map[string]*model.ManualBoard // cohortID → board
	idCounter int
}

func newMockManualBoardRepo() *mockManualBoardRepo {
	return &mockManualBoardRepo{boards: make(map[string]*model.ManualBoard)}
}

func (m *mockManualBoardRepo) Create(_ context.Context, board *model.ManualBoard) error {
	if board.BoardID == "" {
		m.idCounter++
		board.BoardID = fmt.Sprintf("board-%d", m.idCounter)
	}
	if board.Version == 0 {
		board.Version = 1
	}
	m.boards[board.CohortID] = board
	return nil
}

func (m *mockManualBoardRepo) GetByCohort(_ context.Context, cohortID string) (*model.ManualBoard, error) {
	if b, ok := m.boards[cohortID]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockManualBoardRepo) Update(_ context.Context, board *model.ManualBoard) error {
	stored, ok := m.boards[board.CohortID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != board.Version {
		return pkgerrors.ErrOptimisticLock
	}
	board.Version++
	cp := *board
	m.boards[board.CohortID] = &cp
	return nil
}
