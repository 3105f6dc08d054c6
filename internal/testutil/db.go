package testutil

import (
	"testing"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 返回已迁移的内存 sqlite；单连接保证所有查询看到同一个库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(database.SQLiteDSN("file::memory:")), logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser 插入测试用户
func CreateUser(t *testing.T, db *gorm.DB, name string, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:  name,
		Email: name + "@example.com",
		Role:  role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return user
}

// CreateCourse 插入带课时的测试课程
func CreateCourse(t *testing.T, db *gorm.DB, title string, lessonTitles ...string) *model.Course {
	t.Helper()
	course := &model.Course{Title: title}
	for i, lt := range lessonTitles {
		course.Lessons = append(course.Lessons, model.Lesson{Title: lt, Position: i})
	}
	if err := db.Create(course).Error; err != nil {
		t.Fatalf("create course %s: %v", title, err)
	}
	return course
}

func Ptr[T any](v T) *T {
	return &v
}
