package model

// Question 巡查表单题目，section 为原始分区号，展示时减去固定偏移
// swagger:model Question
type Question struct {
	BaseModel
	Title              string   `gorm:"size:255" json:"title"`
	Text               string   `gorm:"type:text;not null" json:"text"`
	QuestionType       string   `gorm:"size:50;not null" json:"questionType"`
	Section            int      `gorm:"index" json:"section"`
	FormOrder          *int     `json:"formOrder"`
	IsRequired         bool     `gorm:"default:false" json:"isRequired"`
	Answers            []string `gorm:"serializer:json;type:text" json:"answers"`
	SectionTitle       string   `gorm:"size:255" json:"sectionTitle"`
	SectionDescription string   `gorm:"type:text" json:"sectionDescription"`
	SectionHeader      string   `gorm:"size:255" json:"sectionHeader"`
	ObsValue           bool     `gorm:"default:false" json:"obsValue"` // 答案写入 obs_value 列
	ObsComm            bool     `gorm:"default:false" json:"obsComm"`  // 答案写入 obs_comm 列
	IsActive           bool     `gorm:"default:true" json:"isActive"`
}

func (Question) TableName() string {
	return "questions"
}
