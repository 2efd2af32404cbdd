// Package testutil builds throwaway stores for package tests.
package testutil

import (
	"fmt"
	"sapaa_backend/internal/model"
	"sapaa_backend/pkg/database"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 共享缓存模式下并发写会直接返回 SQLITE_LOCKED，串行化连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewRedis starts a miniredis server and returns a client connected to it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, mr
}

func intPtr(n int) *int { return &n }

// SeedForm inserts a small question set and returns it in insertion order.
// Display labels: 1 -> "1.1", 2 -> "1.2", 3 -> "2.1", 4 -> "2.2".
func SeedForm(t *testing.T, db *gorm.DB) []model.Question {
	t.Helper()
	qs := []model.Question{
		{Text: "Date of inspection", QuestionType: "date", Section: 4, FormOrder: intPtr(1), IsRequired: true,
			SectionTitle: "Visit details", ObsValue: true, IsActive: true},
		{Text: "Overall condition", QuestionType: "single_choice", Section: 4, FormOrder: intPtr(2), IsRequired: true,
			Answers: []string{"Good", "Fair", "Poor"}, SectionTitle: "Visit details", ObsValue: true, IsActive: true},
		{Text: "Observed activities", QuestionType: "multi_select", Section: 5, FormOrder: intPtr(1),
			Answers: []string{"Hiking", "Camping", "Dumping"}, SectionTitle: "Human impact", ObsValue: true, IsActive: true},
		{Text: "Comments", QuestionType: "text", Section: 5, FormOrder: intPtr(2),
			SectionTitle: "Human impact", ObsComm: true, IsActive: true},
	}
	require.NoError(t, db.Create(&qs).Error)
	return qs
}

// SeedSite inserts an active site.
func SeedSite(t *testing.T, db *gorm.DB, name string) model.Site {
	t.Helper()
	site := model.Site{Name: name, County: "Parkland County", Designation: "Natural Area", AreaHa: 64.5, IsActive: true}
	require.NoError(t, db.Create(&site).Error)
	return site
}

// SeedUser inserts a user with the given role. The password is not hashed.
func SeedUser(t *testing.T, db *gorm.DB, email string, role model.UserRole) model.User {
	t.Helper()
	user := model.User{Name: email, Email: email, Password: "x", Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}
