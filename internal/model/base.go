package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UUIDBase 字符串主键 + 时间戳；删除为物理删除，级联由仓储层显式处理
// swagger:model
type UUIDBase struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = GenerateUUID()
	}
	return
}

func GenerateUUID() string {
	return uuid.New().String()
}

// AllModels 参与自动迁移的模型，顺序即建表顺序
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Course{},
		&Lesson{},
		&LessonProgress{},
		&Submission{},
		&Evaluation{},
	}
}
