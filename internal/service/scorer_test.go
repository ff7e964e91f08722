package service

import (
	"reflect"
	"strings"
	"testing"

	"mews-mentor/backend/internal/model"
)

// ── 测试辅助 ──

func legacyParticipant(id, role string, topics []string, tz int) model.Participant {
	return model.Participant{
		ParticipantID:  id,
		Role:           role,
		Name:           "参与者-" + id,
		ProfileSchema:  model.ProfileSchemaLegacy,
		Topics:         model.StringArray(topics),
		TimezoneOffset: tz,
	}
}

func testWeights() model.MatchingWeights {
	return model.MatchingWeights{
		Capability:      30,
		Semantic:        25,
		Domain:          15,
		Seniority:       15,
		Timezone:        15,
		CapacityPenalty: 20,
	}
}

// ════════════════════════════════════════════════════════════
// 评分确定性
// ════════════════════════════════════════════════════════════

func TestScorer_Score_Deterministic(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL", "Leadership"}, 2)
	mentee.Goals = "improve sql skills and leadership"
	mentee.ExperienceBand = "junior"
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL", "Leadership", "Go"}, 2)
	mentor.Expertise = "sql databases and leadership coaching"
	mentor.ExperienceBand = "senior"

	first := sc.Score(&mentee, &mentor, testWeights(), 0.3)
	second := sc.Score(&mentee, &mentor, testWeights(), 0.3)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("相同输入应产出完全一致的评分明细:\n第一次=%+v\n第二次=%+v", first, second)
	}
}

func TestScorer_ReasonsTieBreakByDeclarationOrder(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	// 能力与时区各得满分 10, 贡献度相同 → 按分量声明顺序排序
	weights := model.MatchingWeights{Capability: 10, Timezone: 10}
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 0)

	b := sc.Score(&mentee, &mentor, weights, 0)
	if len(b.Reasons) != 2 {
		t.Fatalf("期望 2 条理由，实际=%d: %v", len(b.Reasons), b.Reasons)
	}
	if !strings.Contains(b.Reasons[0], "能力匹配") {
		t.Errorf("同分时能力理由应排在前: %v", b.Reasons)
	}
	if !strings.Contains(b.Reasons[1], "时区接近") {
		t.Errorf("时区理由应排在后: %v", b.Reasons)
	}
}

func TestScorer_ReasonsSortedByContribution(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	// 时区满分 15 > 能力半覆盖 15*... 构造时区贡献大于能力贡献
	weights := model.MatchingWeights{Capability: 10, Timezone: 20}
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL", "Go"}, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 0)

	b := sc.Score(&mentee, &mentor, weights, 0)
	// 能力 = 10 * 1/2 = 5, 时区 = 20
	if len(b.Reasons) != 2 {
		t.Fatalf("期望 2 条理由，实际=%v", b.Reasons)
	}
	if !strings.Contains(b.Reasons[0], "时区接近") {
		t.Errorf("贡献度更高的时区理由应排第一: %v", b.Reasons)
	}
}

// ════════════════════════════════════════════════════════════
// 分量评分
// ════════════════════════════════════════════════════════════

func TestScorer_CapabilityScore_LegacyOverlap(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Capability: 30}
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL", "Leadership"}, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 0)

	b := sc.Score(&mentee, &mentor, weights, 0)
	// 2 个主题命中 1 个 → 30 * 0.5 = 15
	if b.Capability != 15 {
		t.Errorf("期望能力分=15，实际=%v", b.Capability)
	}
}

func TestScorer_CapabilityScore_SecondaryHalfWeight(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Capability: 30}
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0)
	mentor := model.Participant{
		ParticipantID: "a-1",
		Role:          model.RoleMentor,
		ProfileSchema: model.ProfileSchemaCapability,
		SecondaryCapabilities: model.CapabilityList{
			{Name: "SQL"},
		},
	}

	b := sc.Score(&mentee, &mentor, weights, 0)
	// 次能力命中折半 → 30 * 0.5 = 15
	if b.Capability != 15 {
		t.Errorf("期望次能力命中折半=15，实际=%v", b.Capability)
	}
}

func TestScorer_CapabilityScore_MenteeSecondaryHalfWeight(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Capability: 30}
	mentee := model.Participant{
		ParticipantID:         "m-1",
		Role:                  model.RoleMentee,
		ProfileSchema:         model.ProfileSchemaCapability,
		PrimaryCapabilities:   model.CapabilityList{{Name: "SQL"}},
		SecondaryCapabilities: model.CapabilityList{{Name: "Go"}, {Name: "Testing"}},
	}
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL", "Go", "Testing"}, 0)

	b := sc.Score(&mentee, &mentor, weights, 0)
	// 主 1 + 次 0.5×2 全部命中，分母 2.0 → 拿满 30
	if b.Capability != 30 {
		t.Errorf("期望主次全命中拿满权重=30，实际=%v", b.Capability)
	}

	// 只命中一个学员次能力: 0.5 / 2.0 → 30 * 0.25 = 7.5
	mentorGoOnly := legacyParticipant("a-2", model.RoleMentor, []string{"Go"}, 0)
	b = sc.Score(&mentee, &mentorGoOnly, weights, 0)
	if b.Capability != 7.5 {
		t.Errorf("期望学员次能力命中折半=7.5，实际=%v", b.Capability)
	}
}

func TestScorer_CapabilityScore_ProficiencyScaled(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Capability: 30}
	prof := 3
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0)
	mentor := model.Participant{
		ParticipantID: "a-1",
		Role:          model.RoleMentor,
		ProfileSchema: model.ProfileSchemaCapability,
		PrimaryCapabilities: model.CapabilityList{
			{Name: "SQL", Proficiency: &prof},
		},
	}

	b := sc.Score(&mentee, &mentor, weights, 0)
	// 熟练度 3/5 → 30 * 0.6 = 18
	if b.Capability != 18 {
		t.Errorf("期望熟练度折算=18，实际=%v", b.Capability)
	}
}

func TestScorer_SeniorityScore_Grading(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Seniority: 20}

	cases := []struct {
		menteeBand string
		mentorBand string
		expected   float64
	}{
		{"junior", "senior", 20},   // 高两档: 满分
		{"junior", "mid", 15},      // 高一档
		{"mid", "mid", 10},         // 平级
		{"senior", "junior", 5},    // 倒挂
		{"", "senior", 0},          // 段位未知
		{"junior", "unknown", 0},   // 段位未知
		{"junior", "principal", 20}, // 高四档仍是满分
	}

	for _, tc := range cases {
		mentee := legacyParticipant("m-1", model.RoleMentee, nil, 0)
		mentee.ExperienceBand = tc.menteeBand
		mentor := legacyParticipant("a-1", model.RoleMentor, nil, 0)
		mentor.ExperienceBand = tc.mentorBand

		b := sc.Score(&mentee, &mentor, weights, 0)
		if b.Seniority != tc.expected {
			t.Errorf("%s→%s: 期望=%v, 实际=%v", tc.menteeBand, tc.mentorBand, tc.expected, b.Seniority)
		}
	}
}

func TestScorer_TimezoneScore_Grading(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Timezone: 20}

	cases := []struct {
		menteeTZ, mentorTZ int
		expected           float64
	}{
		{2, 2, 20},  // 同时区
		{2, 4, 10},  // 差 2 小时
		{2, 6, 5},   // 差 4 小时
		{2, 9, 0},   // 差 7 小时
		{-3, -3, 20},
	}

	for _, tc := range cases {
		mentee := legacyParticipant("m-1", model.RoleMentee, nil, tc.menteeTZ)
		mentor := legacyParticipant("a-1", model.RoleMentor, nil, tc.mentorTZ)

		b := sc.Score(&mentee, &mentor, weights, 0)
		if b.Timezone != tc.expected {
			t.Errorf("tz %d vs %d: 期望=%v, 实际=%v", tc.menteeTZ, tc.mentorTZ, tc.expected, b.Timezone)
		}
	}
}

func TestScorer_DomainScore(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Domain: 20}

	mentee := legacyParticipant("m-1", model.RoleMentee, nil, 0)
	mentee.Department = "Engineering"
	mentor := legacyParticipant("a-1", model.RoleMentor, nil, 0)
	mentor.Department = "engineering"

	b := sc.Score(&mentee, &mentor, weights, 0)
	// 同部门不同职级 → 20 * 0.75 = 15
	if b.Domain != 15 {
		t.Errorf("期望同部门=15，实际=%v", b.Domain)
	}

	mentor.Department = "Sales"
	b = sc.Score(&mentee, &mentor, weights, 0)
	if b.Domain != 0 {
		t.Errorf("不同部门应为 0，实际=%v", b.Domain)
	}
}

// ════════════════════════════════════════════════════════════
// 容量惩罚策略
// ════════════════════════════════════════════════════════════

func TestScorer_PenaltySubtract(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	weights := model.MatchingWeights{Capability: 30, CapacityPenalty: 20}
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 10)

	b := sc.Score(&mentee, &mentor, weights, 0.5)
	// 正向 30, 惩罚 20*0.5=10 → 总分 20
	if b.CapacityPenalty != 10 {
		t.Errorf("期望惩罚=10，实际=%v", b.CapacityPenalty)
	}
	if b.TotalScore != 20 {
		t.Errorf("期望总分=20，实际=%v", b.TotalScore)
	}
}

func TestScorer_PenaltyScale(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategyScale)
	weights := model.MatchingWeights{Capability: 30, CapacityPenalty: 20}
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 10)

	b := sc.Score(&mentee, &mentor, weights, 0.5)
	// 正向 30, 缩放系数 1 - 0.5*0.2 = 0.9 → 总分 27
	if b.TotalScore != 27 {
		t.Errorf("期望总分=27，实际=%v", b.TotalScore)
	}
	if b.CapacityPenalty != 3 {
		t.Errorf("期望惩罚=3，实际=%v", b.CapacityPenalty)
	}
}

func TestScorer_TotalScoreNeverNegative(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	// 正向全为 0, 满载惩罚 → 总分应钳制为 0
	weights := model.MatchingWeights{CapacityPenalty: 50}
	mentee := legacyParticipant("m-1", model.RoleMentee, nil, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, nil, 10)

	b := sc.Score(&mentee, &mentor, weights, 1)
	if b.TotalScore != 0 {
		t.Errorf("总分不应为负，实际=%v", b.TotalScore)
	}
}

func TestScorer_AllZeroWeights(t *testing.T) {
	sc := NewScorer(nil, PenaltyStrategySubtract)
	mentee := legacyParticipant("m-1", model.RoleMentee, []string{"SQL"}, 0)
	mentor := legacyParticipant("a-1", model.RoleMentor, []string{"SQL"}, 0)

	// 权重全零是定义行为, 不报错; 分数退化为惩罚项
	b := sc.Score(&mentee, &mentor, model.MatchingWeights{}, 0)
	if b.TotalScore != 0 {
		t.Errorf("权重全零时总分应为 0，实际=%v", b.TotalScore)
	}
	if len(b.Reasons) != 0 {
		t.Errorf("权重全零时不应有理由，实际=%v", b.Reasons)
	}
}

// ════════════════════════════════════════════════════════════
// 默认语义评分器
// ════════════════════════════════════════════════════════════

func TestTokenOverlapScorer(t *testing.T) {
	sc := NewTokenOverlapScorer()

	if sim := sc.Similarity("sql databases", "sql databases"); sim != 1 {
		t.Errorf("完全相同文本期望相似度=1，实际=%v", sim)
	}
	if sim := sc.Similarity("frontend react", "kubernetes operations"); sim != 0 {
		t.Errorf("无交集文本期望相似度=0，实际=%v", sim)
	}
	if sim := sc.Similarity("", "anything"); sim != 0 {
		t.Errorf("空文本期望相似度=0，实际=%v", sim)
	}
	sim := sc.Similarity("learn sql and leadership", "sql coaching")
	if sim <= 0 || sim >= 1 {
		t.Errorf("部分交集相似度应在 (0,1)，实际=%v", sim)
	}
}
