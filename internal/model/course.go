package model

// swagger:model Course
type Course struct {
	UUIDBase
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Lessons     []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	CourseID   string  `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Position   int     `gorm:"not null;default:0" json:"position"`
	Title      string  `gorm:"size:200;not null" json:"title"`
	Content    string  `gorm:"type:text" json:"content"`
	VideoURL   string  `gorm:"size:512;not null;default:''" json:"videoUrl"`
	PdfURL     *string `gorm:"size:512" json:"pdfUrl"`
	Instructor *string `gorm:"size:100" json:"instructor"`
	Duration   *string `gorm:"size:50" json:"duration"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonInput 课程创建/更新时提交的课时
type LessonInput struct {
	ID         *string `json:"id"`
	Title      string  `json:"title" binding:"required"`
	Content    string  `json:"content"`
	VideoURL   *string `json:"videoUrl"`
	PdfURL     *string `json:"pdfUrl"`
	Instructor *string `json:"instructor"`
	Duration   *string `json:"duration"`
}

// ToLesson 生成新的课时实体；客户端传入的 id 会被忽略，课时总是重新生成标识
func (in LessonInput) ToLesson(courseID string, position int) Lesson {
	lesson := Lesson{
		CourseID:   courseID,
		Position:   position,
		Title:      in.Title,
		Content:    in.Content,
		PdfURL:     in.PdfURL,
		Instructor: in.Instructor,
		Duration:   in.Duration,
	}
	if in.VideoURL != nil {
		lesson.VideoURL = *in.VideoURL
	}
	return lesson
}

// LessonFields 单个课时的部分更新
type LessonFields struct {
	Title      *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content    *string `json:"content"`
	VideoURL   *string `json:"videoUrl"`
	PdfURL     *string `json:"pdfUrl"`
	Instructor *string `json:"instructor"`
	Duration   *string `json:"duration"`
}

func (f LessonFields) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	if f.Title != nil {
		updates["title"] = *f.Title
	}
	if f.Content != nil {
		updates["content"] = *f.Content
	}
	if f.VideoURL != nil {
		updates["video_url"] = *f.VideoURL
	}
	if f.PdfURL != nil {
		updates["pdf_url"] = *f.PdfURL
	}
	if f.Instructor != nil {
		updates["instructor"] = *f.Instructor
	}
	if f.Duration != nil {
		updates["duration"] = *f.Duration
	}
	return updates
}
