package model

import "time"

// LessonProgress 用户课时完成状态，(user_id, lesson_id) 为复合主键
// swagger:model LessonProgress
type LessonProgress struct {
	UserID      string     `gorm:"primaryKey;type:varchar(36)" json:"userId"`
	LessonID    string     `gorm:"primaryKey;type:varchar(36);index" json:"lessonId"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lesson *Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
