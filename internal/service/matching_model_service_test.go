package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"mews-mentor/backend/internal/dto"
	"mews-mentor/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestModelService() (MatchingModelService, *testRepos) {
	repos := newTestRepos()
	svc := NewMatchingModelService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

// ════════════════════════════════════════════════════════════
// Create / CreateNewVersion 测试
// ════════════════════════════════════════════════════════════

func TestModelService_Create_DraftWithDefaults(t *testing.T) {
	svc, _ := setupTestModelService()

	resp, err := svc.Create(context.Background(), &dto.CreateMatchingModelRequest{
		Name:        "试点模型",
		Description: "面向新一期项目",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if resp.Status != model.ModelStatusDraft {
		t.Errorf("新建模型应为草稿，实际=%s", resp.Status)
	}
	if resp.Version != 1 {
		t.Errorf("初始版本应为 1，实际=%d", resp.Version)
	}
	if resp.IsDefault {
		t.Error("新建模型不应自动成为默认")
	}
	defaults := model.DefaultWeights()
	if resp.Weights.Capability != float64(defaults.Capability) {
		t.Errorf("应携带默认权重，实际=%+v", resp.Weights)
	}
}

func TestModelService_CreateNewVersion_Fork(t *testing.T) {
	svc, repos := setupTestModelService()
	seedDefaultModel(repos)

	resp, err := svc.CreateNewVersion(context.Background(), "model-1", "admin-1")
	if err != nil {
		t.Fatalf("CreateNewVersion 应成功: %v", err)
	}

	if resp.Version != 2 {
		t.Errorf("fork 版本应为 2，实际=%d", resp.Version)
	}
	if resp.Status != model.ModelStatusDraft {
		t.Errorf("fork 应为草稿，实际=%s", resp.Status)
	}
	if resp.IsDefault {
		t.Error("fork 不应继承默认标记")
	}
	// 权重从父版本复制
	if resp.Weights.Capability != 30 {
		t.Errorf("fork 应复制父版本权重，实际=%+v", resp.Weights)
	}

	// 父版本保持不动
	parent := repos.matchingModel.models["model-1"]
	if parent.ModelVersion != 1 || parent.Status != model.ModelStatusActive {
		t.Errorf("父版本不应被修改，实际=%+v", parent)
	}
}

// ════════════════════════════════════════════════════════════
// Activate / SetDefault / Archive 测试
// ════════════════════════════════════════════════════════════

func TestModelService_Activate(t *testing.T) {
	svc, _ := setupTestModelService()

	created, _ := svc.Create(context.Background(), &dto.CreateMatchingModelRequest{Name: "试点模型"}, "admin-1")
	resp, err := svc.Activate(context.Background(), created.ID, "admin-1")
	if err != nil {
		t.Fatalf("Activate 应成功: %v", err)
	}
	if resp.Status != model.ModelStatusActive {
		t.Errorf("期望 active，实际=%s", resp.Status)
	}
	// 激活不影响默认标记
	if resp.IsDefault {
		t.Error("激活不应设置默认标记")
	}
}

func TestModelService_Activate_ArchivedRejected(t *testing.T) {
	svc, repos := setupTestModelService()
	seedDefaultModel(repos)
	repos.matchingModel.models["model-1"].Status = model.ModelStatusArchived

	// 归档是终态, 必须先派生新版本
	if _, err := svc.Activate(context.Background(), "model-1", "admin-1"); !errors.Is(err, ErrModelArchived) {
		t.Errorf("期望 ErrModelArchived，实际=%v", err)
	}
	if _, err := svc.SetDefault(context.Background(), "model-1", "admin-1"); !errors.Is(err, ErrModelArchived) {
		t.Errorf("期望 ErrModelArchived，实际=%v", err)
	}
}

func TestModelService_SetDefault_Uniqueness(t *testing.T) {
	svc, repos := setupTestModelService()
	seedDefaultModel(repos)

	second, _ := svc.Create(context.Background(), &dto.CreateMatchingModelRequest{Name: "试点模型"}, "admin-1")

	resp, err := svc.SetDefault(context.Background(), second.ID, "admin-1")
	if err != nil {
		t.Fatalf("SetDefault 应成功: %v", err)
	}
	if !resp.IsDefault {
		t.Error("目标模型应成为默认")
	}

	// 任何时刻最多一个默认模型
	defaultCount := 0
	for _, mm := range repos.matchingModel.models {
		if mm.IsDefault {
			defaultCount++
		}
	}
	if defaultCount != 1 {
		t.Errorf("期望恰好 1 个默认模型，实际=%d", defaultCount)
	}
}

func TestModelService_Archive_ClearsDefaultWithoutPromotion(t *testing.T) {
	svc, repos := setupTestModelService()
	seedDefaultModel(repos)
	svc.Create(context.Background(), &dto.CreateMatchingModelRequest{Name: "候补模型"}, "admin-1")

	resp, err := svc.Archive(context.Background(), "model-1", "admin-1")
	if err != nil {
		t.Fatalf("Archive 应成功: %v", err)
	}
	if resp.Status != model.ModelStatusArchived {
		t.Errorf("期望 archived，实际=%s", resp.Status)
	}
	if resp.IsDefault {
		t.Error("归档应清除默认标记")
	}

	// 不自动提升其他模型为默认
	for id, mm := range repos.matchingModel.models {
		if mm.IsDefault {
			t.Errorf("不应有模型被自动提升为默认: %s", id)
		}
	}
}

// ════════════════════════════════════════════════════════════
// Update 测试
// ════════════════════════════════════════════════════════════

func TestModelService_Update_DraftOnly(t *testing.T) {
	svc, _ := setupTestModelService()

	created, _ := svc.Create(context.Background(), &dto.CreateMatchingModelRequest{Name: "试点模型"}, "admin-1")
	newName := "试点模型v2"
	resp, err := svc.Update(context.Background(), created.ID, &dto.UpdateMatchingModelRequest{
		Name: &newName,
		Weights: &dto.WeightsInput{
			Capability: 40, Semantic: 20, Domain: 10,
			Seniority: 10, Timezone: 20, CapacityPenalty: 30,
		},
	}, "admin-1")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Name != "试点模型v2" {
		t.Errorf("名称未更新，实际=%s", resp.Name)
	}
	if resp.Weights.Capability != 40 {
		t.Errorf("权重未更新，实际=%+v", resp.Weights)
	}

	// 激活后不再可编辑
	svc.Activate(context.Background(), created.ID, "admin-1")
	if _, err := svc.Update(context.Background(), created.ID, &dto.UpdateMatchingModelRequest{Name: &newName}, "admin-1"); !errors.Is(err, ErrModelNotDraft) {
		t.Errorf("期望 ErrModelNotDraft，实际=%v", err)
	}
}

func TestModelService_NotFound(t *testing.T) {
	svc, _ := setupTestModelService()

	if _, err := svc.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrMatchingModelNotFound) {
		t.Errorf("期望 ErrMatchingModelNotFound，实际=%v", err)
	}
}
