package model

// swagger:model Site
type Site struct {
	BaseModel
	Name        string  `gorm:"size:255;not null;index" json:"name"`
	County      string  `gorm:"size:100" json:"county"`
	Designation string  `gorm:"size:100" json:"designation"` // Natural Area, Ecological Reserve, ...
	AreaHa      float64 `json:"areaHa"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	IsActive    bool    `gorm:"default:true" json:"isActive"`
}

func (Site) TableName() string {
	return "sites"
}
