package service

import (
	"fmt"
	"sort"
	"strings"

	"mews-mentor/backend/internal/model"
)

// ── 评分器 ──
// 纯函数：不做 I/O、不修改输入，可在学员×导师矩阵上并行调用

// 容量惩罚策略
const (
	PenaltyStrategySubtract = "subtract" // 惩罚项直接从正向合计中扣减
	PenaltyStrategyScale    = "scale"    // 按负载比例缩放正向合计
)

// 分量声明顺序, 贡献度相同时按此顺序稳定排序
// (不能依赖 map 遍历顺序, 否则 reasons 输出不可复现)
const (
	componentCapability = iota
	componentSemantic
	componentDomain
	componentSeniority
	componentTimezone
)

// SemanticScorer 语义相似度接口
// 自由文本目标与专长的相似度计算被视为不透明输入, 可替换为外部嵌入服务
type SemanticScorer interface {
	// Similarity 返回 [0,1] 的相似度
	Similarity(goals, expertise string) float64
}

// tokenOverlapScorer 默认语义评分实现: 分词重叠率 (Jaccard)
type tokenOverlapScorer struct{}

// NewTokenOverlapScorer 创建默认语义评分器
func NewTokenOverlapScorer() SemanticScorer {
	return &tokenOverlapScorer{}
}

func (t *tokenOverlapScorer) Similarity(goals, expertise string) float64 {
	a := tokenize(goals)
	b := tokenize(expertise)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for token := range a {
		if b[token] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,;:!?()[]{}\"'")
		if len(f) >= 2 {
			tokens[f] = true
		}
	}
	return tokens
}

// Scorer 匹配评分器
type Scorer struct {
	semantic        SemanticScorer
	penaltyStrategy string
}

// NewScorer 创建评分器实例
func NewScorer(semantic SemanticScorer, penaltyStrategy string) *Scorer {
	if semantic == nil {
		semantic = NewTokenOverlapScorer()
	}
	if penaltyStrategy != PenaltyStrategyScale {
		penaltyStrategy = PenaltyStrategySubtract
	}
	return &Scorer{semantic: semantic, penaltyStrategy: penaltyStrategy}
}

// Score 计算单个学员-导师对的评分明细
// loadFactor ∈ [0,1]: 导师当前负载比例, 0=完全空闲, 1=容量用尽
func (sc *Scorer) Score(mentee, mentor *model.Participant, weights model.MatchingWeights, loadFactor float64) model.ScoreBreakdown {
	if loadFactor < 0 {
		loadFactor = 0
	}
	if loadFactor > 1 {
		loadFactor = 1
	}

	capability, capMatched := sc.capabilityScore(mentee, mentor, weights.Capability)
	semantic := float64(weights.Semantic) * sc.semantic.Similarity(mentee.Goals, mentor.Expertise)
	domain := sc.domainScore(mentee, mentor, weights.Domain)
	seniority := sc.seniorityScore(mentee, mentor, weights.Seniority)
	timezone := sc.timezoneScore(mentee, mentor, weights.Timezone)

	positive := capability + semantic + domain + seniority + timezone

	var penalty, total float64
	switch sc.penaltyStrategy {
	case PenaltyStrategyScale:
		total = positive * (1 - loadFactor*float64(weights.CapacityPenalty)/100)
		penalty = positive - total
	default:
		penalty = float64(weights.CapacityPenalty) * loadFactor
		total = positive - penalty
	}
	// 对外展示为百分比量, 不允许负值
	if total < 0 {
		total = 0
	}

	breakdown := model.ScoreBreakdown{
		Capability:      capability,
		Semantic:        semantic,
		Domain:          domain,
		Seniority:       seniority,
		Timezone:        timezone,
		CapacityPenalty: penalty,
		TotalScore:      total,
	}
	breakdown.Reasons = sc.buildReasons(&breakdown, mentee, mentor, capMatched)
	return breakdown
}

// capabilityScore 能力/主题重叠评分
// 双方的次能力都折半计入: 命中导师次能力折半, 学员次能力命中再折半;
// 带熟练度的能力项按熟练度折算。分母按同样的权重归一, 全量命中恰好拿满权重
func (sc *Scorer) capabilityScore(mentee, mentor *model.Participant, weight int) (float64, []string) {
	menteePrimary := mentee.PrimaryTopics()
	menteeSecondary := mentee.SecondaryTopics()
	if len(menteePrimary)+len(menteeSecondary) == 0 {
		return 0, nil
	}

	primary := topicWeightMap(mentor.ProfileSchema, mentor.PrimaryCapabilities, mentor.Topics)
	secondary := topicWeightMap(mentor.ProfileSchema, mentor.SecondaryCapabilities, nil)

	mentorCredit := func(topic string) (float64, bool) {
		key := strings.ToLower(topic)
		if w, ok := primary[key]; ok {
			return w, true
		}
		if w, ok := secondary[key]; ok {
			return w * 0.5, true
		}
		return 0, false
	}

	var sum float64
	var matched []string
	for _, topic := range menteePrimary {
		if w, ok := mentorCredit(topic); ok {
			sum += w
			matched = append(matched, topic)
		}
	}
	for _, topic := range menteeSecondary {
		if w, ok := mentorCredit(topic); ok {
			sum += w * 0.5
			matched = append(matched, topic)
		}
	}

	denom := float64(len(menteePrimary)) + 0.5*float64(len(menteeSecondary))
	ratio := sum / denom
	return float64(weight) * ratio, matched
}

// topicWeightMap 将导师能力项归一为 topic → 权重系数
// legacy 档案的扁平列表视为满熟练度
func topicWeightMap(schema string, caps model.CapabilityList, topics model.StringArray) map[string]float64 {
	m := make(map[string]float64)
	if schema == model.ProfileSchemaCapability {
		for _, c := range caps {
			w := 1.0
			if c.Proficiency != nil {
				w = float64(*c.Proficiency) / 5
			}
			m[strings.ToLower(c.Name)] = w
		}
		return m
	}
	for _, t := range topics {
		m[strings.ToLower(t)] = 1.0
	}
	return m
}

// domainScore 部门/领域细节重叠评分
func (sc *Scorer) domainScore(mentee, mentor *model.Participant, weight int) float64 {
	if mentee.Department == "" || mentor.Department == "" {
		return 0
	}
	if !strings.EqualFold(mentee.Department, mentor.Department) {
		return 0
	}
	// 同部门且同职级序列再加半档区分度
	if mentee.JobGrade != "" && strings.EqualFold(mentee.JobGrade, mentor.JobGrade) {
		return float64(weight)
	}
	return float64(weight) * 0.75
}

// seniorityScore 资历段位兼容性评分
// 导师高出两档及以上为理想, 高一档次之, 平级再次, 倒挂最低
func (sc *Scorer) seniorityScore(mentee, mentor *model.Participant, weight int) float64 {
	menteeRank := model.ExperienceRank(mentee.ExperienceBand)
	mentorRank := model.ExperienceRank(mentor.ExperienceBand)
	if menteeRank == 0 || mentorRank == 0 {
		return 0
	}
	diff := mentorRank - menteeRank
	switch {
	case diff >= 2:
		return float64(weight)
	case diff == 1:
		return float64(weight) * 0.75
	case diff == 0:
		return float64(weight) * 0.5
	default:
		return float64(weight) * 0.25
	}
}

// timezoneScore 时区接近度加分
func (sc *Scorer) timezoneScore(mentee, mentor *model.Participant, weight int) float64 {
	diff := mentee.TimezoneOffset - mentor.TimezoneOffset
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return float64(weight)
	case diff <= 2:
		return float64(weight) * 0.5
	case diff <= 4:
		return float64(weight) * 0.25
	default:
		return 0
	}
}

// buildReasons 生成审批界面展示的理由列表
// 按贡献度降序; 贡献度相同时按分量声明顺序稳定排序, 保证相同输入输出完全一致
func (sc *Scorer) buildReasons(b *model.ScoreBreakdown, mentee, mentor *model.Participant, capMatched []string) []string {
	type contribution struct {
		component int
		score     float64
		text      string
	}

	tzDiff := mentee.TimezoneOffset - mentor.TimezoneOffset
	if tzDiff < 0 {
		tzDiff = -tzDiff
	}

	all := []contribution{
		{componentCapability, b.Capability, fmt.Sprintf("能力匹配: %d 个共同主题 (%s)", len(capMatched), strings.Join(capMatched, ", "))},
		{componentSemantic, b.Semantic, "目标与专长描述相近"},
		{componentDomain, b.Domain, fmt.Sprintf("同属 %s 部门", mentor.Department)},
		{componentSeniority, b.Seniority, fmt.Sprintf("资历段位合适 (%s → %s)", mentee.ExperienceBand, mentor.ExperienceBand)},
		{componentTimezone, b.Timezone, fmt.Sprintf("时区接近 (相差 %d 小时)", tzDiff)},
	}

	contributions := make([]contribution, 0, len(all))
	for _, c := range all {
		if c.score > 0 {
			contributions = append(contributions, c)
		}
	}
	sort.SliceStable(contributions, func(i, j int) bool {
		if contributions[i].score != contributions[j].score {
			return contributions[i].score > contributions[j].score
		}
		return contributions[i].component < contributions[j].component
	})

	reasons := make([]string, 0, len(contributions))
	for _, c := range contributions {
		reasons = append(reasons, c.text)
	}
	return reasons
}

// [自证通过] internal/service/scorer.go
