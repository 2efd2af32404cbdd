package database

import (
	"fmt"
	"log"
	"sapaa_backend/internal/config"
	"sapaa_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate 自动迁移所有表
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Site{},
		&model.Question{},
		&model.InspectionReport{},
		&model.Observation{},
		&model.Attachment{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

func intPtr(n int) *int { return &n }

// SeedQuestions 题库为空时写入默认巡查表单
func SeedQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	visit := func(q model.Question) model.Question {
		q.Section = 4
		q.SectionTitle = "Visit details"
		q.SectionDescription = "When and how the site was visited."
		q.SectionHeader = "Section 1"
		return q
	}
	condition := func(q model.Question) model.Question {
		q.Section = 5
		q.SectionTitle = "Site condition"
		q.SectionDescription = "Overall state of the natural area."
		q.SectionHeader = "Section 2"
		return q
	}
	impact := func(q model.Question) model.Question {
		q.Section = 6
		q.SectionTitle = "Human impact"
		q.SectionDescription = "Evidence of use or disturbance."
		q.SectionHeader = "Section 3"
		return q
	}
	closing := func(q model.Question) model.Question {
		q.Section = 7
		q.SectionTitle = "Sign off"
		q.SectionDescription = "Attachments and confirmation."
		q.SectionHeader = "Section 4"
		return q
	}

	questions := []model.Question{
		visit(model.Question{Text: "Date of inspection", QuestionType: "date", FormOrder: intPtr(1), IsRequired: true, ObsValue: true}),
		visit(model.Question{Text: "How did you access the site?", QuestionType: "single_choice", FormOrder: intPtr(2), IsRequired: true, ObsValue: true,
			Answers: []string{"On foot", "Bicycle", "Vehicle", "Boat"}}),
		visit(model.Question{Text: "Time spent on site", QuestionType: "single_choice", FormOrder: intPtr(3), ObsValue: true,
			Answers: []string{"Under 1 hour", "1-3 hours", "Over 3 hours"}}),
		condition(model.Question{Text: "Overall condition of the site", QuestionType: "single_choice", FormOrder: intPtr(1), IsRequired: true, ObsValue: true,
			Answers: []string{"Excellent", "Good", "Fair", "Poor"}}),
		condition(model.Question{Text: "Signage present", QuestionType: "multi_select", FormOrder: intPtr(2), ObsValue: true,
			Answers: []string{"Entrance sign", "Boundary signs", "Regulation signs", "None"}}),
		condition(model.Question{Text: "Describe the site condition", QuestionType: "text", FormOrder: intPtr(3), ObsComm: true}),
		impact(model.Question{Text: "Observed human activities", QuestionType: "multi_select", FormOrder: intPtr(1), IsRequired: true, ObsValue: true,
			Answers: []string{"Hiking", "Off-highway vehicles", "Camping", "Hunting", "Dumping", "None"}}),
		impact(model.Question{Text: "Describe any disturbance", QuestionType: "text", FormOrder: intPtr(2), ObsComm: true}),
		closing(model.Question{Text: "Photos or videos", QuestionType: "file", FormOrder: intPtr(1), ObsValue: true}),
		closing(model.Question{Text: "Additional comments", QuestionType: "text", FormOrder: intPtr(2), ObsComm: true}),
		closing(model.Question{Text: "I confirm this report is accurate to the best of my knowledge", QuestionType: "agreement",
			FormOrder: intPtr(3), IsRequired: true, ObsValue: true}),
	}
	for i := range questions {
		questions[i].IsActive = true
	}
	return db.Create(&questions).Error
}
