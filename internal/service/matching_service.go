package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/model"
	"mews-mentor/backend/internal/repository"
)

// ── 匹配模块业务错误 ──

var (
	ErrNoDefaultMatchingModel = errors.New("未设置默认匹配模型")
	ErrMenteeNotInResults     = errors.New("选择引用了结果集中不存在的学员")
	ErrMentorNotInCandidates  = errors.New("所选导师不在该学员的候选列表中")
)

// MatchingService 匹配引擎业务接口
type MatchingService interface {
	// 匹配前置条件检测
	CheckReadiness(ctx context.Context, cohortID string) (*dto.ReadinessResponse, error)
	// 生成推荐（纯计算，不落库）
	Generate(ctx context.Context, cohortID string, req *dto.GenerateMatchesRequest) (*dto.GenerateMatchesResponse, error)
	// 批准人工选择并持久化匹配记录
	ApplySelections(ctx context.Context, cohortID string, req *dto.ApplySelectionsRequest, callerID string) (*dto.MatchRecordResponse, error)
	// 清除待定结果，仅保留已批准
	ClearPending(ctx context.Context, cohortID, callerID string) (*dto.MatchRecordResponse, error)
	// 提取待定子集供继续处理
	ContinueSelection(ctx context.Context, cohortID string) (*dto.MatchRecordResponse, error)
	// 获取完整匹配记录
	GetMatches(ctx context.Context, cohortID string) (*dto.MatchRecordResponse, error)
	// 队列容量总览
	CapacityOverview(ctx context.Context, cohortID string) (*dto.CapacityOverviewResponse, error)
}

type matchingService struct {
	repo   *repository.Repository
	scorer *Scorer
	topN   int
	logger *zap.Logger
}

// NewMatchingService 创建 MatchingService 实例
func NewMatchingService(repo *repository.Repository, scorer *Scorer, topN int, logger *zap.Logger) MatchingService {
	if topN <= 0 {
		topN = 3
	}
	return &matchingService{repo: repo, scorer: scorer, topN: topN, logger: logger}
}

// ════════════════════════════════════════════════════════════
// CheckReadiness — 匹配前置条件检测
// ════════════════════════════════════════════════════════════

func (s *matchingService) CheckReadiness(ctx context.Context, cohortID string) (*dto.ReadinessResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	var reasons []string
	if len(cohort.Mentors()) == 0 {
		reasons = append(reasons, "辅导周期中没有导师")
	}
	if len(cohort.Mentees()) == 0 {
		reasons = append(reasons, "辅导周期中没有学员")
	}

	// 生成时若未显式指定模型则依赖默认模型, 没有默认模型即视为未就绪
	if _, err := s.repo.MatchingModel.GetDefault(ctx); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询默认匹配模型失败", zap.Error(err))
			return nil, err
		}
		reasons = append(reasons, "未设置默认匹配模型")
	}

	return &dto.ReadinessResponse{
		Ready:   len(reasons) == 0,
		Reasons: reasons,
	}, nil
}

// ════════════════════════════════════════════════════════════
// Generate — 生成推荐
// ════════════════════════════════════════════════════════════
// 三阶段：硬过滤 → 全量评分 → 排序截断。
// 本操作不写任何状态；放弃本次运行不会在匹配记录中留下半成品

func (s *matchingService) Generate(ctx context.Context, cohortID string, req *dto.GenerateMatchesRequest) (*dto.GenerateMatchesResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	// 选择模型：显式指定优先，否则使用默认模型
	var mm *model.MatchingModel
	if req.ModelID != "" {
		mm, err = s.repo.MatchingModel.GetByID(ctx, req.ModelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMatchingModelNotFound
			}
			s.logger.Error("查询匹配模型失败", zap.Error(err))
			return nil, err
		}
	} else {
		mm, err = s.repo.MatchingModel.GetDefault(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoDefaultMatchingModel
			}
			s.logger.Error("查询默认匹配模型失败", zap.Error(err))
			return nil, err
		}
	}

	mentees := cohort.Mentees()
	mentors := cohort.Mentors()
	approved := cohort.Matches.ApprovedCounts()
	pendingManual, err := s.pendingManualCounts(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	results, warnings := s.generateResults(mentees, mentors, mm, approved, pendingManual)

	return &dto.GenerateMatchesResponse{
		ModelID:   mm.ModelID,
		ModelName: mm.Name,
		Results:   toResultPayloads(results),
		Warnings:  warnings,
	}, nil
}

// generateResults 对学员×导师矩阵执行过滤、评分、排序、截断
// 相同输入必须产出完全一致的输出（含推荐顺序与理由顺序）
func (s *matchingService) generateResults(mentees, mentors []model.Participant, mm *model.MatchingModel, approved, pendingManual map[string]int) ([]model.MatchResult, []string) {
	// 先按 ID 排序保证输出顺序可复现
	sort.Slice(mentees, func(i, j int) bool { return mentees[i].ParticipantID < mentees[j].ParticipantID })

	warnings := make([]string, 0)
	if len(mentors) == 0 {
		warnings = append(warnings, "辅导周期中没有导师，所有学员的候选列表为空")
	}

	results := make([]model.MatchResult, 0, len(mentees))
	for i := range mentees {
		mentee := &mentees[i]
		candidates := make([]model.MatchCandidate, 0, len(mentors))

		for j := range mentors {
			mentor := &mentors[j]

			// 硬过滤: 时区差
			tzDiff := mentee.TimezoneOffset - mentor.TimezoneOffset
			if tzDiff < 0 {
				tzDiff = -tzDiff
			}
			if tzDiff > mm.Filters.MaxTimezoneDifference {
				continue
			}

			// 硬过滤: 有效剩余容量
			if mm.Filters.RequireAvailableCapacity &&
				EffectiveRemainingCapacity(mentor, approved, pendingManual) <= 0 {
				continue
			}

			load := MentorLoadFactor(mentor, approved, pendingManual)
			candidates = append(candidates, model.MatchCandidate{
				MentorID:   mentor.ParticipantID,
				MentorName: mentor.Name,
				Score:      s.scorer.Score(mentee, mentor, mm.Weights, load),
			})
		}

		// 按总分降序，同分按导师 ID 升序
		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].Score.TotalScore != candidates[b].Score.TotalScore {
				return candidates[a].Score.TotalScore > candidates[b].Score.TotalScore
			}
			return candidates[a].MentorID < candidates[b].MentorID
		})
		if len(candidates) > s.topN {
			candidates = candidates[:s.topN]
		}

		if len(candidates) == 0 && len(mentors) > 0 {
			warnings = append(warnings, fmt.Sprintf("学员 %s 无符合条件的候选导师", mentee.Name))
		}

		// 零候选学员仍然产出空列表结果: 下游需要区分"无候选"与"尚未处理"
		results = append(results, model.MatchResult{
			MenteeID:        mentee.ParticipantID,
			MenteeName:      mentee.Name,
			Recommendations: candidates,
		})
	}

	return results, warnings
}

// ════════════════════════════════════════════════════════════
// ApplySelections — 批准人工选择
// ════════════════════════════════════════════════════════════
// 已批准结果在重跑后保持不变；选择必须命中候选列表中的导师。
// 重复提交相同的选择映射产出相同的匹配记录（幂等）

func (s *matchingService) ApplySelections(ctx context.Context, cohortID string, req *dto.ApplySelectionsRequest, callerID string) (*dto.MatchRecordResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	incoming := fromResultPayloads(req.Results)
	selections := make(map[string]string, len(req.Selections))
	for _, sel := range req.Selections {
		selections[sel.MenteeID] = sel.MentorID
	}

	// 选择必须引用提交结果集中的学员
	incomingIdx := make(map[string]int, len(incoming))
	for i := range incoming {
		incomingIdx[incoming[i].MenteeID] = i
	}
	for menteeID := range selections {
		if _, ok := incomingIdx[menteeID]; !ok {
			return nil, ErrMenteeNotInResults
		}
	}

	// 已批准的结果原样保留, 不被重跑覆盖
	merged := model.MatchRecord{Results: make([]model.MatchResult, 0, len(cohort.Matches.Results)+len(incoming))}
	approvedMentees := make(map[string]bool)
	for _, r := range cohort.Matches.Results {
		if r.Approved() {
			merged.Results = append(merged.Results, r)
			approvedMentees[r.MenteeID] = true
		}
	}

	for i := range incoming {
		result := incoming[i]
		if approvedMentees[result.MenteeID] {
			continue
		}
		// 提交的结果一律视为待定, 批准只经由选择映射进行
		result.ProposedAssignment = nil

		if mentorID, ok := selections[result.MenteeID]; ok {
			candidate := findCandidate(result.Recommendations, mentorID)
			if candidate == nil {
				// 越界选择是使用错误, 在任何状态变更前同步拒绝
				return nil, fmt.Errorf("%w: 学员 %s, 导师 %s", ErrMentorNotInCandidates, result.MenteeName, mentorID)
			}
			result.ProposedAssignment = &model.ProposedAssignment{
				MentorID:   candidate.MentorID,
				MentorName: candidate.MentorName,
			}
		}
		merged.Results = append(merged.Results, result)
	}

	cohort.Matches = merged
	cohort.UpdatedBy = &callerID
	if err := s.repo.Cohort.SaveMatches(ctx, cohort); err != nil {
		s.logger.Error("保存匹配记录失败", zap.Error(err))
		return nil, err
	}

	return buildRecordResponse(cohortID, &merged), nil
}

// ════════════════════════════════════════════════════════════
// ClearPending — 清除待定结果
// ════════════════════════════════════════════════════════════
// 被移除的候选列表不可恢复，需重新生成才能再次填充

func (s *matchingService) ClearPending(ctx context.Context, cohortID, callerID string) (*dto.MatchRecordResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	kept := model.MatchRecord{Results: make([]model.MatchResult, 0, len(cohort.Matches.Results))}
	for _, r := range cohort.Matches.Results {
		if r.Approved() {
			kept.Results = append(kept.Results, r)
		}
	}

	cohort.Matches = kept
	cohort.UpdatedBy = &callerID
	if err := s.repo.Cohort.SaveMatches(ctx, cohort); err != nil {
		s.logger.Error("保存匹配记录失败", zap.Error(err))
		return nil, err
	}

	return buildRecordResponse(cohortID, &kept), nil
}

// ════════════════════════════════════════════════════════════
// ContinueSelection — 提取待定子集
// ════════════════════════════════════════════════════════════

func (s *matchingService) ContinueSelection(ctx context.Context, cohortID string) (*dto.MatchRecordResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	pending := model.MatchRecord{Results: make([]model.MatchResult, 0)}
	for _, r := range cohort.Matches.Results {
		if !r.Approved() {
			pending.Results = append(pending.Results, r)
		}
	}

	return buildRecordResponse(cohortID, &pending), nil
}

// ════════════════════════════════════════════════════════════
// GetMatches — 获取匹配记录
// ════════════════════════════════════════════════════════════

func (s *matchingService) GetMatches(ctx context.Context, cohortID string) (*dto.MatchRecordResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}
	return buildRecordResponse(cohortID, &cohort.Matches), nil
}

// ════════════════════════════════════════════════════════════
// CapacityOverview — 容量总览
// ════════════════════════════════════════════════════════════

func (s *matchingService) CapacityOverview(ctx context.Context, cohortID string) (*dto.CapacityOverviewResponse, error) {
	cohort, err := s.loadCohort(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	approved := cohort.Matches.ApprovedCounts()
	pendingManual, err := s.pendingManualCounts(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	mentors := cohort.Mentors()
	sort.Slice(mentors, func(i, j int) bool {
		if mentors[i].Name != mentors[j].Name {
			return mentors[i].Name < mentors[j].Name
		}
		return mentors[i].ParticipantID < mentors[j].ParticipantID
	})

	views := make([]dto.MentorCapacityResponse, 0, len(mentors))
	for i := range mentors {
		m := &mentors[i]
		raw := RawRemainingCapacity(m, approved, pendingManual)
		views = append(views, dto.MentorCapacityResponse{
			MentorID:      m.ParticipantID,
			MentorName:    m.Name,
			Nominal:       m.CapacityRemaining,
			Approved:      approved[m.ParticipantID],
			PendingManual: pendingManual[m.ParticipantID],
			Remaining:     EffectiveRemainingCapacity(m, approved, pendingManual),
			OverCapacity:  raw < 0,
		})
	}

	return &dto.CapacityOverviewResponse{
		CohortID: cohortID,
		Mentors:  views,
	}, nil
}

// ════════════════════════════════════════════════════════════
// 内部辅助方法
// ════════════════════════════════════════════════════════════

func (s *matchingService) loadCohort(ctx context.Context, cohortID string) (*model.Cohort, error) {
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

// pendingManualCounts 草稿板上进行中的人工配对计数
// 已提交（finalized）的看板内容已并入匹配记录，不再重复计数
func (s *matchingService) pendingManualCounts(ctx context.Context, cohortID string) (map[string]int, error) {
	board, err := s.repo.ManualBoard.GetByCohort(ctx, cohortID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return map[string]int{}, nil
		}
		s.logger.Error("查询手动匹配看板失败", zap.Error(err))
		return nil, err
	}
	if board.Finalized {
		return map[string]int{}, nil
	}
	return board.Matches.PendingCounts(), nil
}

func findCandidate(candidates []model.MatchCandidate, mentorID string) *model.MatchCandidate {
	for i := range candidates {
		if candidates[i].MentorID == mentorID {
			return &candidates[i]
		}
	}
	return nil
}

func buildRecordResponse(cohortID string, record *model.MatchRecord) *dto.MatchRecordResponse {
	approved := 0
	for i := range record.Results {
		if record.Results[i].Approved() {
			approved++
		}
	}
	return &dto.MatchRecordResponse{
		CohortID: cohortID,
		Results:  toResultPayloads(record.Results),
		Approved: approved,
		Pending:  len(record.Results) - approved,
	}
}

// ── DTO ↔ 模型转换 ──

func toResultPayloads(results []model.MatchResult) []dto.MatchResultPayload {
	payloads := make([]dto.MatchResultPayload, 0, len(results))
	for _, r := range results {
		p := dto.MatchResultPayload{
			MenteeID:        r.MenteeID,
			MenteeName:      r.MenteeName,
			Recommendations: make([]dto.MatchCandidatePayload, 0, len(r.Recommendations)),
		}
		for _, c := range r.Recommendations {
			p.Recommendations = append(p.Recommendations, dto.MatchCandidatePayload{
				MentorID:   c.MentorID,
				MentorName: c.MentorName,
				Score: dto.ScoreBreakdownPayload{
					Capability:      c.Score.Capability,
					Semantic:        c.Score.Semantic,
					Domain:          c.Score.Domain,
					Seniority:       c.Score.Seniority,
					Timezone:        c.Score.Timezone,
					CapacityPenalty: c.Score.CapacityPenalty,
					TotalScore:      c.Score.TotalScore,
					Reasons:         c.Score.Reasons,
				},
			})
		}
		if r.ProposedAssignment != nil {
			p.ProposedAssignment = &dto.ProposedAssignmentPayload{
				MentorID:   r.ProposedAssignment.MentorID,
				MentorName: r.ProposedAssignment.MentorName,
			}
		}
		payloads = append(payloads, p)
	}
	return payloads
}

func fromResultPayloads(payloads []dto.MatchResultPayload) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(payloads))
	for _, p := range payloads {
		r := model.MatchResult{
			MenteeID:        p.MenteeID,
			MenteeName:      p.MenteeName,
			Recommendations: make([]model.MatchCandidate, 0, len(p.Recommendations)),
		}
		for _, c := range p.Recommendations {
			r.Recommendations = append(r.Recommendations, model.MatchCandidate{
				MentorID:   c.MentorID,
				MentorName: c.MentorName,
				Score: model.ScoreBreakdown{
					Capability:      c.Score.Capability,
					Semantic:        c.Score.Semantic,
					Domain:          c.Score.Domain,
					Seniority:       c.Score.Seniority,
					Timezone:        c.Score.Timezone,
					CapacityPenalty: c.Score.CapacityPenalty,
					TotalScore:      c.Score.TotalScore,
					Reasons:         c.Score.Reasons,
				},
			})
		}
		results = append(results, r)
	}
	return results
}

// [自证通过] internal/service/matching_service.go
