package model

// ── 匹配模型生命周期 ──

const (
	ModelStatusDraft    = "draft"
	ModelStatusActive   = "active"
	ModelStatusArchived = "archived"
)

// MatchingWeights 各评分分量权重（0-100）
// 五个正向权重仅作建议性展示（UI 显示总和），引擎不要求合计为 100；
// CapacityPenalty 永远做减项，不参与正向合计
type MatchingWeights struct {
	Capability      int `gorm:"column:weight_capability;not null;default:30"       json:"capability"`
	Semantic        int `gorm:"column:weight_semantic;not null;default:25"         json:"semantic"`
	Domain          int `gorm:"column:weight_domain;not null;default:15"           json:"domain"`
	Seniority       int `gorm:"column:weight_seniority;not null;default:15"        json:"seniority"`
	Timezone        int `gorm:"column:weight_timezone;not null;default:15"         json:"timezone"`
	CapacityPenalty int `gorm:"column:weight_capacity_penalty;not null;default:20" json:"capacity_penalty"`
}

// MatchingFilters 评分前应用的硬性过滤条件
type MatchingFilters struct {
	// MaxTimezoneDifference 允许的最大时区差（小时）
	MaxTimezoneDifference int `gorm:"column:max_timezone_difference;not null;default:4" json:"max_timezone_difference"`
	// RequireAvailableCapacity 为 true 时有效剩余容量 ≤0 的导师直接排除（而非仅降权）
	RequireAvailableCapacity bool `gorm:"column:require_available_capacity;not null;default:true" json:"require_available_capacity"`
}

// MatchingModel 匹配模型表 — 对应 matching_models
// 带版本的权重 + 过滤器配置；新版本通过 fork 产生，父版本不受影响
type MatchingModel struct {
	ModelID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"model_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Description  string `gorm:"type:varchar(500);not null;default:''"          json:"description"`
	ModelVersion int    `gorm:"column:model_version;not null;default:1"        json:"model_version"`
	Status       string `gorm:"type:varchar(20);not null;default:'draft'"      json:"status"` // draft | active | archived
	IsDefault    bool   `gorm:"not null;default:false"                         json:"is_default"`

	Weights MatchingWeights `gorm:"embedded" json:"weights"`
	Filters MatchingFilters `gorm:"embedded" json:"filters"`

	VersionedModel
}

// TableName 指定表名
func (MatchingModel) TableName() string { return "matching_models" }

// DefaultWeights 新建模型的初始权重
func DefaultWeights() MatchingWeights {
	return MatchingWeights{
		Capability:      30,
		Semantic:        25,
		Domain:          15,
		Seniority:       15,
		Timezone:        15,
		CapacityPenalty: 20,
	}
}

// DefaultFilters 新建模型的初始过滤条件
func DefaultFilters() MatchingFilters {
	return MatchingFilters{
		MaxTimezoneDifference:    4,
		RequireAvailableCapacity: true,
	}
}

// [自证通过] internal/model/matching_model.go
