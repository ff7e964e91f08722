package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/model"
)

func setupTestCohortService() (CohortService, *testRepos) {
	repos := newTestRepos()
	svc := NewCohortService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func intPtr(v int) *int { return &v }

// ════════════════════════════════════════════════════════════
// Create / GetByID 测试
// ════════════════════════════════════════════════════════════

func TestCohortService_Create(t *testing.T) {
	svc, repos := setupTestCohortService()

	resp, err := svc.Create(context.Background(), &dto.CreateCohortRequest{Name: "2026 秋季辅导"}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.Status != "active" {
		t.Errorf("新周期状态应为 active，实际=%s", resp.Status)
	}
	if resp.ApprovedMatches != 0 || resp.PendingMatches != 0 {
		t.Errorf("新周期匹配记录应为空，实际=%+v", resp)
	}

	stored := repos.cohort.cohorts[resp.ID]
	if stored == nil || stored.Matches.Results == nil {
		t.Error("匹配记录应初始化为空列表而非 nil")
	}
}

func TestCohortService_GetByID_NotFound(t *testing.T) {
	svc, _ := setupTestCohortService()

	if _, err := svc.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrCohortNotFound) {
		t.Errorf("期望 ErrCohortNotFound，实际=%v", err)
	}
}

func TestCohortService_GetByID_Counts(t *testing.T) {
	svc, repos := setupTestCohortService()
	cohort := seedBoardCohort(repos)
	cohort.Matches = model.MatchRecord{Results: []model.MatchResult{
		{
			MenteeID: "m-1",
			ProposedAssignment: &model.ProposedAssignment{
				MentorID: "a-1", MentorName: "参与者-a-1",
			},
		},
		{MenteeID: "m-2"},
	}}

	resp, err := svc.GetByID(context.Background(), "cohort-1")
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if resp.MentorCount != 1 || resp.MenteeCount != 2 {
		t.Errorf("期望 1 导师 2 学员，实际=%d/%d", resp.MentorCount, resp.MenteeCount)
	}
	if resp.ApprovedMatches != 1 || resp.PendingMatches != 1 {
		t.Errorf("期望 1 批准 1 待定，实际=%d/%d", resp.ApprovedMatches, resp.PendingMatches)
	}
}

// ════════════════════════════════════════════════════════════
// ImportParticipants / ListParticipants 测试
// ════════════════════════════════════════════════════════════

func TestCohortService_ImportParticipants(t *testing.T) {
	svc, repos := setupTestCohortService()
	created, _ := svc.Create(context.Background(), &dto.CreateCohortRequest{Name: "导入测试"}, "admin-1")

	resp, err := svc.ImportParticipants(context.Background(), created.ID, &dto.ImportParticipantsRequest{
		Participants: []dto.ParticipantImport{
			{
				Name: "张三", Email: "zhangsan@example.com", Role: model.RoleMentee,
				ProfileSchema: model.ProfileSchemaLegacy,
				Topics:        []string{"SQL", "Leadership"},
				Department:    "数据平台", TimezoneOffset: 8,
			},
			{
				Name: "李四", Email: "lisi@example.com", Role: model.RoleMentor,
				ProfileSchema: model.ProfileSchemaCapability,
				PrimaryCaps: []dto.CapabilityInput{
					{Name: "SQL", Proficiency: intPtr(4)},
				},
				SecondaryCaps:     []dto.CapabilityInput{{Name: "Go"}},
				CapacityRemaining: 3,
			},
		},
	}, "admin-1")
	if err != nil {
		t.Fatalf("ImportParticipants 应成功: %v", err)
	}
	if resp.Imported != 2 {
		t.Errorf("期望导入 2 人，实际=%d", resp.Imported)
	}

	// legacy 画像落 topics, capability 画像落能力列表
	list, _ := repos.participant.ListByCohort(context.Background(), created.ID)
	if len(list) != 2 {
		t.Fatalf("期望 2 名参与者，实际=%d", len(list))
	}
	for _, p := range list {
		switch p.ProfileSchema {
		case model.ProfileSchemaLegacy:
			if len(p.Topics) != 2 || len(p.PrimaryCapabilities) != 0 {
				t.Errorf("legacy 画像应只有 topics，实际=%+v", p)
			}
		case model.ProfileSchemaCapability:
			if len(p.Topics) != 0 || len(p.PrimaryCapabilities) != 1 {
				t.Errorf("capability 画像应只有能力列表，实际=%+v", p)
			}
			if prof := p.PrimaryCapabilities[0].Proficiency; prof == nil || *prof != 4 {
				t.Errorf("熟练度应保留，实际=%v", prof)
			}
			if p.SecondaryCapabilities[0].Proficiency != nil {
				t.Error("未填写的熟练度应保持为 nil")
			}
		}
	}
}

func TestCohortService_ImportParticipants_CohortNotFound(t *testing.T) {
	svc, _ := setupTestCohortService()

	_, err := svc.ImportParticipants(context.Background(), "ghost", &dto.ImportParticipantsRequest{
		Participants: []dto.ParticipantImport{
			{Name: "张三", Email: "z@example.com", Role: model.RoleMentee, ProfileSchema: model.ProfileSchemaLegacy},
		},
	}, "admin-1")
	if !errors.Is(err, ErrCohortNotFound) {
		t.Errorf("期望 ErrCohortNotFound，实际=%v", err)
	}
}

func TestCohortService_ListParticipants_RoleFilter(t *testing.T) {
	svc, repos := setupTestCohortService()
	seedBoardCohort(repos)
	for _, p := range []model.Participant{
		legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0),
		legacyParticipant("m-2", model.RoleMentee, []string{"Go"}, 0),
		legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 0),
	} {
		p.CohortID = "cohort-1"
		repos.participant.participants = append(repos.participant.participants, p)
	}

	all, err := svc.ListParticipants(context.Background(), "cohort-1", "")
	if err != nil {
		t.Fatalf("ListParticipants 应成功: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("期望 3 名参与者，实际=%d", len(all))
	}

	mentors, err := svc.ListParticipants(context.Background(), "cohort-1", model.RoleMentor)
	if err != nil {
		t.Fatalf("按角色过滤应成功: %v", err)
	}
	if len(mentors) != 1 || mentors[0].Role != model.RoleMentor {
		t.Errorf("期望 1 名导师，实际=%+v", mentors)
	}
}
