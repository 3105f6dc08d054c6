package model

// Profile 实习生档案，与用户一对一
// swagger:model Profile
type Profile struct {
	UUIDBase
	UserID       string  `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"`
	FirstName    *string `gorm:"size:100" json:"firstName"`
	LastName     *string `gorm:"size:100" json:"lastName"`
	University   *string `gorm:"size:200" json:"university"`
	Faculty      *string `gorm:"size:200" json:"faculty"`
	Major        *string `gorm:"size:200" json:"major"`
	StudentID    *string `gorm:"size:50" json:"studentId"`
	StartDate    *string `gorm:"size:20" json:"startDate"`
	EndDate      *string `gorm:"size:20" json:"endDate"`
	Mobile       *string `gorm:"size:30" json:"mobile"`
	AdvisorName  *string `gorm:"size:100" json:"advisorName"`
	AdvisorEmail *string `gorm:"size:191" json:"advisorEmail"`
}

func (Profile) TableName() string {
	return "profiles"
}

// ProfileFields 档案可更新字段；nil 表示不修改
type ProfileFields struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	University   *string `json:"university"`
	Faculty      *string `json:"faculty"`
	Major        *string `json:"major"`
	StudentID    *string `json:"studentId"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Mobile       *string `json:"mobile"`
	AdvisorName  *string `json:"advisorName"`
	AdvisorEmail *string `json:"advisorEmail" binding:"omitempty,email"`
}

// Updates 转换为 gorm 列更新映射，只包含非 nil 字段
func (f ProfileFields) Updates() map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = *v
		}
	}
	set("first_name", f.FirstName)
	set("last_name", f.LastName)
	set("university", f.University)
	set("faculty", f.Faculty)
	set("major", f.Major)
	set("student_id", f.StudentID)
	set("start_date", f.StartDate)
	set("end_date", f.EndDate)
	set("mobile", f.Mobile)
	set("advisor_name", f.AdvisorName)
	set("advisor_email", f.AdvisorEmail)
	return updates
}

// Apply 把非 nil 字段写入档案
func (f ProfileFields) Apply(p *Profile) {
	if f.FirstName != nil {
		p.FirstName = f.FirstName
	}
	if f.LastName != nil {
		p.LastName = f.LastName
	}
	if f.University != nil {
		p.University = f.University
	}
	if f.Faculty != nil {
		p.Faculty = f.Faculty
	}
	if f.Major != nil {
		p.Major = f.Major
	}
	if f.StudentID != nil {
		p.StudentID = f.StudentID
	}
	if f.StartDate != nil {
		p.StartDate = f.StartDate
	}
	if f.EndDate != nil {
		p.EndDate = f.EndDate
	}
	if f.Mobile != nil {
		p.Mobile = f.Mobile
	}
	if f.AdvisorName != nil {
		p.AdvisorName = f.AdvisorName
	}
	if f.AdvisorEmail != nil {
		p.AdvisorEmail = f.AdvisorEmail
	}
}
