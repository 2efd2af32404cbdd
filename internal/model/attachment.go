package model

// Attachment 文件题上传的文件，视频会额外记录时长和分辨率
// swagger:model Attachment
type Attachment struct {
	UUIDBase
	UserID      uint    `gorm:"index;not null" json:"userId"`
	SiteID      uint    `gorm:"index;not null" json:"siteId"`
	QuestionID  uint    `gorm:"index;not null" json:"questionId"`
	ObjectKey   string  `gorm:"size:255;not null" json:"objectKey"`
	URL         string  `gorm:"size:512;not null" json:"url"`
	FileName    string  `gorm:"size:255" json:"fileName"`
	ContentType string  `gorm:"size:100" json:"contentType"`
	Size        int64   `json:"size"`
	Duration    float64 `json:"duration,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}
