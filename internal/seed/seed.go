package seed

import (
	"context"
	"errors"
	"time"

	"intern_hub_backend/internal/model"
	"intern_hub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DemoPassword 演示账号统一密码
const DemoPassword = "password"

func str(s string) *string { return &s }

// Run 写入演示数据；按邮箱或固定ID判断，已存在的记录不会被覆盖
func Run(ctx context.Context, db *gorm.DB) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := []model.User{
			{Name: "Admin (Mentor)", Email: "admin@example.com", Role: model.Admin},
			{Name: "Intern User", Email: "intern@example.com", Role: model.Intern},
			{Name: "External User", Email: "external@example.com", Role: model.External},
		}
		for i := range users {
			users[i].Password = string(hashed)
			users[i].Provider = str(model.ProviderLocal)
			if err := findOrCreateUser(tx, &users[i]); err != nil {
				return err
			}
		}
		intern := users[1]

		profile := model.Profile{
			UserID:       intern.ID,
			FirstName:    str("Intern"),
			LastName:     str("User"),
			University:   str("GISTDA University"),
			Faculty:      str("Engineering"),
			Major:        str("Computer Engineering"),
			StudentID:    str("63010001"),
			StartDate:    str("2024-01-01"),
			EndDate:      str("2024-04-30"),
			Mobile:       str("0812345678"),
			AdvisorName:  str("Dr. Advisor"),
			AdvisorEmail: str("advisor@university.ac.th"),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&profile).Error; err != nil {
			return err
		}

		courses := []model.Course{
			{
				UUIDBase:    model.UUIDBase{ID: "c1"},
				Title:       "Introduction to Space Technology",
				Description: "Learn the basics of space tech and satellite systems.",
				Lessons: []model.Lesson{
					{UUIDBase: model.UUIDBase{ID: "l1"}, Position: 0, Title: "History of Spaceflight", Content: "Content about history...", VideoURL: "https://www.youtube.com/embed/dQw4w9WgXcQ"},
					{UUIDBase: model.UUIDBase{ID: "l2"}, Position: 1, Title: "Satellite Orbits", Content: "Content about orbits..."},
				},
			},
			{
				UUIDBase:    model.UUIDBase{ID: "c2"},
				Title:       "GISTDA Orientation",
				Description: "Welcome to GISTDA internship program.",
				Lessons: []model.Lesson{
					{UUIDBase: model.UUIDBase{ID: "l3"}, Position: 0, Title: "Safety Guidelines", Content: "Safety first..."},
				},
			},
		}
		for i := range courses {
			exists, err := recordExists(tx, &model.Course{}, courses[i].ID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			if err := tx.Create(&courses[i]).Error; err != nil {
				return err
			}
		}

		exists, err := recordExists(tx, &model.Submission{}, "s1")
		if err != nil {
			return err
		}
		if !exists {
			submission := model.Submission{
				UUIDBase:    model.UUIDBase{ID: "s1"},
				Title:       "Satellite Image Processing using AI",
				Abstract:    "A study on using CNNs to detect deforestation.",
				StudentName: intern.Name,
				StudentID:   intern.ID,
				ImageURL:    "https://images.unsplash.com/photo-1451187580459-43490279c0fa?w=800&q=80",
				Status:      model.SubmissionPublished,
				SubmittedAt: time.Now(),
			}
			if err := tx.Omit("Student").Create(&submission).Error; err != nil {
				return err
			}
		}

		logger.Log.Info("Demo data seeded",
			zap.String("admin", users[0].Email),
			zap.String("intern", intern.Email),
			zap.String("external", users[2].Email))
		return nil
	})
}

func findOrCreateUser(tx *gorm.DB, user *model.User) error {
	var existing model.User
	err := tx.Where("email = ?", user.Email).First(&existing).Error
	if err == nil {
		*user = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(user).Error
}

func recordExists(tx *gorm.DB, m interface{}, id string) (bool, error) {
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
