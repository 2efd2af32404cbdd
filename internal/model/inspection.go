package model

// swagger:model InspectionReport
type InspectionReport struct {
	BaseModel
	SiteID       uint          `gorm:"index;not null" json:"siteId"`
	Site         *Site         `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	UserID       uint          `gorm:"index;not null" json:"userId"`
	User         *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Observations []Observation `gorm:"foreignKey:ReportID" json:"observations,omitempty"`
}

func (InspectionReport) TableName() string {
	return "inspection_reports"
}

// Observation 一条答案记录，obs_value 与 obs_comm 恰有一列非空
// swagger:model Observation
type Observation struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID   uint    `gorm:"index;not null" json:"reportId"`
	QuestionID uint    `gorm:"index;not null" json:"questionId"`
	ObsValue   *string `gorm:"type:text" json:"obsValue"`
	ObsComm    *string `gorm:"type:text" json:"obsComm"`
}

func (Observation) TableName() string {
	return "observations"
}
