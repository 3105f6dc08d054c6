package model

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	MinRubricScore = 0
	MaxRubricScore = 5
)

// EvaluationScores 导师评价的四项评分，取值 [0,5]
type EvaluationScores struct {
	Punctuality    float64 `gorm:"not null" json:"punctuality"`
	QualityOfWork  float64 `gorm:"not null" json:"qualityOfWork"`
	Teamwork       float64 `gorm:"not null" json:"teamwork"`
	ProblemSolving float64 `gorm:"not null" json:"problemSolving"`
}

// Validate 返回越界字段 -> 错误信息；全部合法时返回 nil
func (s EvaluationScores) Validate() map[string]string {
	fields := map[string]string{}
	check := func(name string, v float64) {
		if v < MinRubricScore || v > MaxRubricScore {
			fields[name] = fmt.Sprintf("must be between %d and %d", MinRubricScore, MaxRubricScore)
		}
	}
	check("punctuality", s.Punctuality)
	check("qualityOfWork", s.QualityOfWork)
	check("teamwork", s.Teamwork)
	check("problemSolving", s.ProblemSolving)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Average 四项平均分
func (s EvaluationScores) Average() float64 {
	return (s.Punctuality + s.QualityOfWork + s.Teamwork + s.ProblemSolving) / 4
}

// Evaluation 只追加，不做 (intern, mentor) 唯一约束
// swagger:model Evaluation
type Evaluation struct {
	UUIDBase
	InternID   string `gorm:"type:varchar(36);index;not null" json:"internId"`
	MentorID   string `gorm:"type:varchar(36);index" json:"mentorId"`
	MentorName string `gorm:"size:100" json:"mentorName"`
	EvaluationScores
	Comment string `gorm:"type:text" json:"comment"`

	AverageScore float64      `gorm:"-" json:"averageScore"`
	Intern       *UserSummary `gorm:"foreignKey:InternID;constraint:OnDelete:CASCADE" json:"intern,omitempty"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (e *Evaluation) AfterFind(tx *gorm.DB) error {
	e.AverageScore = e.EvaluationScores.Average()
	return nil
}

func (e *Evaluation) AfterCreate(tx *gorm.DB) error {
	e.AverageScore = e.EvaluationScores.Average()
	return nil
}
