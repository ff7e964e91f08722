package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ── 参与者角色 / 档案版式 ──

const (
	RoleMentor = "mentor"
	RoleMentee = "mentee"

	// ProfileSchemaLegacy 旧版档案：只有一个扁平 topics 列表
	ProfileSchemaLegacy = "legacy"
	// ProfileSchemaCapability 新版档案：主/次能力项，可带熟练度
	ProfileSchemaCapability = "capability"
)

// CapabilityEntry 能力项（新版档案），熟练度可选（1-5）
type CapabilityEntry struct {
	Name        string `json:"name"`
	Proficiency *int   `json:"proficiency,omitempty"`
}

// CapabilityList 对应 JSONB 列的能力项列表
type CapabilityList []CapabilityEntry

// Scan 实现 sql.Scanner
func (l *CapabilityList) Scan(src interface{}) error {
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
		return fmt.Errorf("CapabilityList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, l)
}

// Value 实现 driver.Valuer
func (l CapabilityList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// Participant 参与者档案表 — 对应 participants
// 导师与学员共用一张表，由 Role 区分；CapacityRemaining 仅导师有意义
type Participant struct {
	ParticipantID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"participant_id"`
	CohortID       string `gorm:"type:uuid;not null"                             json:"cohort_id"`
	Role           string `gorm:"type:varchar(10);not null"                      json:"role"` // mentor | mentee
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email          string `gorm:"type:varchar(255);not null"                     json:"email"`
	Department     string `gorm:"type:varchar(100);not null;default:''"          json:"department"`
	JobGrade       string `gorm:"type:varchar(50);not null;default:''"           json:"job_grade"`
	ExperienceBand string `gorm:"type:varchar(20);not null;default:''"           json:"experience_band"` // junior | mid | senior | lead | principal
	TimezoneOffset int    `gorm:"type:smallint;not null;default:0"               json:"timezone_offset"` // UTC 偏移小时数
	Goals          string `gorm:"type:text;not null;default:''"                  json:"goals"`           // 学员目标自述
	Expertise      string `gorm:"type:text;not null;default:''"                  json:"expertise"`       // 导师专长自述

	// CapacityRemaining 导师名义剩余容量（未扣除已批准/进行中的配对）
	CapacityRemaining int `gorm:"type:smallint;not null;default:0" json:"capacity_remaining"`

	// 档案版式：legacy 只填 Topics；capability 填主/次能力项
	ProfileSchema         string         `gorm:"type:varchar(20);not null;default:'legacy'" json:"profile_schema"`
	Topics                StringArray    `gorm:"type:text[]"                                json:"topics,omitempty"`
	PrimaryCapabilities   CapabilityList `gorm:"type:jsonb"                                 json:"primary_capabilities,omitempty"`
	SecondaryCapabilities CapabilityList `gorm:"type:jsonb"                                 json:"secondary_capabilities,omitempty"`

	VersionedModel
}

// TableName 指定表名
func (Participant) TableName() string { return "participants" }

// PrimaryTopics 解析主能力主题
// 两种档案版式在此归一：调用方不需要再探测可选字段
func (p *Participant) PrimaryTopics() []string {
	if p.ProfileSchema == ProfileSchemaCapability {
		topics := make([]string, 0, len(p.PrimaryCapabilities))
		for _, c := range p.PrimaryCapabilities {
			topics = append(topics, c.Name)
		}
		return topics
	}
	return []string(p.Topics)
}

// SecondaryTopics 解析次能力主题（legacy 档案没有次能力，返回空）
func (p *Participant) SecondaryTopics() []string {
	if p.ProfileSchema != ProfileSchemaCapability {
		return nil
	}
	topics := make([]string, 0, len(p.SecondaryCapabilities))
	for _, c := range p.SecondaryCapabilities {
		topics = append(topics, c.Name)
	}
	return topics
}

// ── 资历段位 ──

// experienceRanks 资历段位的固定顺序
var experienceRanks = map[string]int{
	"junior":    1,
	"mid":       2,
	"senior":    3,
	"lead":      4,
	"principal": 5,
}

// ExperienceRank 返回资历段位序号，未知段位返回 0
func ExperienceRank(band string) int {
	return experienceRanks[band]
}

// [自证通过] internal/model/participant.go
