package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/model"
	"mews-mentor/backend/internal/repository"
)

// ── 手动匹配看板业务错误 ──

var (
	ErrManualBoardNotFound   = errors.New("手动匹配看板不存在")
	ErrManualMenteeUnknown   = errors.New("配对引用了不属于该周期的学员")
	ErrManualMentorUnknown   = errors.New("配对引用了不属于该周期的导师")
	ErrManualMenteeDuplicate = errors.New("同一学员在看板上出现多次")
)

// ManualBoardService 手动匹配看板业务接口
// 看板是管理员会话的临时工作区: 草稿可反复编辑,
// 提交后内容并入匹配记录成为权威状态
type ManualBoardService interface {
	// 获取看板（不存在时返回空草稿）
	GetBoard(ctx context.Context, cohortID string) (*dto.ManualBoardResponse, error)
	// 保存草稿（整体替换；提交后的再次编辑会重置为草稿）
	SaveDraft(ctx context.Context, cohortID string, req *dto.SaveManualBoardRequest, callerID string) (*dto.ManualBoardResponse, error)
	// 提交看板（并入匹配记录；容量超额仅警告，不阻止）
	Commit(ctx context.Context, cohortID, callerID string) (*dto.CommitManualBoardResponse, error)
}

type manualBoardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewManualBoardService 创建 ManualBoardService 实例
func NewManualBoardService(repo *repository.Repository, logger *zap.Logger) ManualBoardService {
	return &manualBoardService{repo: repo, logger: logger}
}

func (s *manualBoardService) GetBoard(ctx context.Context, cohortID string) (*dto.ManualBoardResponse, error) {
	board, err := s.repo.ManualBoard.GetByCohort(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ManualBoardResponse{
				CohortID:  cohortID,
				Matches:   []dto.ManualMatchInput{},
				Finalized: false,
			}, nil
		}
		s.logger.Error("查询手动匹配看板失败", zap.Error(err))
		return nil, err
	}

	resp := toBoardResponse(board)
	return &resp, nil
}

func (s *manualBoardService) SaveDraft(ctx context.Context, cohortID string, req *dto.SaveManualBoardRequest, callerID string) (*dto.ManualBoardResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	if err := s.validateMatches(cohort, req.Matches); err != nil {
		return nil, err
	}

	board, err := s.repo.ManualBoard.GetByCohort(ctx, cohortID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询手动匹配看板失败", zap.Error(err))
		return nil, err
	}

	// 已有配对保留原创建时间, 新配对记当前时间
	existingAt := make(map[string]time.Time)
	if board != nil {
		for _, m := range board.Matches {
			existingAt[m.MenteeID+":"+m.MentorID] = m.CreatedAt
		}
	}

	now := time.Now()
	matches := make(model.ManualMatchList, 0, len(req.Matches))
	for _, in := range req.Matches {
		createdAt := now
		if at, ok := existingAt[in.MenteeID+":"+in.MentorID]; ok {
			createdAt = at
		}
		matches = append(matches, model.ManualMatch{
			MenteeID:   in.MenteeID,
			MentorID:   in.MentorID,
			Confidence: in.Confidence,
			Notes:      in.Notes,
			CreatedAt:  createdAt,
		})
	}

	if board == nil {
		board = &model.ManualBoard{
			CohortID: cohortID,
			Matches:  matches,
		}
		board.CreatedBy = &callerID
		board.UpdatedBy = &callerID
		if err := s.repo.ManualBoard.Create(ctx, board); err != nil {
			s.logger.Error("创建手动匹配看板失败", zap.Error(err))
			return nil, err
		}
	} else {
		board.Matches = matches
		// 提交后的任何编辑都会把看板重置回草稿
		board.Finalized = false
		board.UpdatedBy = &callerID
		if err := s.repo.ManualBoard.Update(ctx, board); err != nil {
			s.logger.Error("保存看板草稿失败", zap.Error(err))
			return nil, err
		}
	}

	resp := toBoardResponse(board)
	return &resp, nil
}

func (s *manualBoardService) Commit(ctx context.Context, cohortID, callerID string) (*dto.CommitManualBoardResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	board, err := s.repo.ManualBoard.GetByCohort(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManualBoardNotFound
		}
		s.logger.Error("查询手动匹配看板失败", zap.Error(err))
		return nil, err
	}

	mentorNames := make(map[string]string)
	for i := range cohort.Participants {
		p := &cohort.Participants[i]
		if p.Role == model.RoleMentor {
			mentorNames[p.ParticipantID] = p.Name
		}
	}

	// 合并: 已批准的结果保持不变; 待定学员写入指派;
	// 记录中不存在的学员合成一条空候选列表的已批准结果
	merged := model.MatchRecord{Results: make([]model.MatchResult, 0, len(cohort.Matches.Results)+len(board.Matches))}
	merged.Results = append(merged.Results, cohort.Matches.Results...)
	approvedCount := 0

	for _, m := range board.Matches {
		assignment := &model.ProposedAssignment{
			MentorID:   m.MentorID,
			MentorName: mentorNames[m.MentorID],
		}
		idx := merged.FindByMentee(m.MenteeID)
		if idx >= 0 {
			if merged.Results[idx].Approved() {
				continue
			}
			merged.Results[idx].ProposedAssignment = assignment
		} else {
			menteeName := ""
			for i := range cohort.Participants {
				if cohort.Participants[i].ParticipantID == m.MenteeID {
					menteeName = cohort.Participants[i].Name
					break
				}
			}
			merged.Results = append(merged.Results, model.MatchResult{
				MenteeID:           m.MenteeID,
				MenteeName:         menteeName,
				Recommendations:    []model.MatchCandidate{},
				ProposedAssignment: assignment,
			})
		}
		approvedCount++
	}

	// 提交后的容量复核: 超额仅警告, 管理员可有意超订热门导师
	warnings := s.capacityWarnings(cohort, &merged)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)

	cohort.Matches = merged
	cohort.UpdatedBy = &callerID
	if err := txRepo.Cohort.SaveMatches(ctx, cohort); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("保存匹配记录失败", zap.Error(err))
		return nil, err
	}

	board.Finalized = true
	board.UpdatedBy = &callerID
	if err := txRepo.ManualBoard.Update(ctx, board); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("提交看板失败", zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	return &dto.CommitManualBoardResponse{
		Board:    toBoardResponse(board),
		Approved: approvedCount,
		Warnings: warnings,
	}, nil
}

// ── 内部辅助方法 ──

func (s *manualBoardService) loadCohort(ctx context.Context, cohortID string) (*model.Cohort, error) {
	cohort, err := s.repo.Cohort.GetByID(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCohortNotFound
		}
		s.logger.Error("查询辅导周期失败", zap.Error(err))
		return nil, err
	}
	return cohort, nil
}

// validateMatches 配对引用校验: 学员/导师必须属于该周期且角色正确,
// 同一学员不可重复出现
func (s *manualBoardService) validateMatches(cohort *model.Cohort, matches []dto.ManualMatchInput) error {
	roles := make(map[string]string, len(cohort.Participants))
	for i := range cohort.Participants {
		roles[cohort.Participants[i].ParticipantID] = cohort.Participants[i].Role
	}

	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if roles[m.MenteeID] != model.RoleMentee {
			return ErrManualMenteeUnknown
		}
		if roles[m.MentorID] != model.RoleMentor {
			return ErrManualMentorUnknown
		}
		if seen[m.MenteeID] {
			return ErrManualMenteeDuplicate
		}
		seen[m.MenteeID] = true
	}
	return nil
}

// capacityWarnings 检查合并后的记录是否把导师推到名义容量之上
func (s *manualBoardService) capacityWarnings(cohort *model.Cohort, record *model.MatchRecord) []string {
	approved := record.ApprovedCounts()
	var warnings []string
	for i := range cohort.Participants {
		p := &cohort.Participants[i]
		if p.Role != model.RoleMentor {
			continue
		}
		overrun := approved[p.ParticipantID] - p.CapacityRemaining
		if overrun > 0 {
			warnings = append(warnings, fmt.Sprintf("导师 %s 超出名义容量 %d 个配对", p.Name, overrun))
		}
	}
	return warnings
}

func toBoardResponse(board *model.ManualBoard) dto.ManualBoardResponse {
	matches := make([]dto.ManualMatchInput, 0, len(board.Matches))
	for _, m := range board.Matches {
		matches = append(matches, dto.ManualMatchInput{
			MenteeID:   m.MenteeID,
			MentorID:   m.MentorID,
			Confidence: m.Confidence,
			Notes:      m.Notes,
		})
	}
	return dto.ManualBoardResponse{
		ID:        board.BoardID,
		CohortID:  board.CohortID,
		Matches:   matches,
		Finalized: board.Finalized,
		UpdatedAt: board.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/manual_board_service.go
