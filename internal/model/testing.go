package model

type TestType int

const (
	TestTheoretical TestType = 0
	TestPractical   TestType = 1
)

func (t TestType) String() string {
	if t == TestPractical {
		return "practical"
	}
	return "theoretical"
}

// swagger:model Testing
type Testing struct {
	UUIDBase
	VacancyID      string   `gorm:"index;type:varchar(36);not null" json:"vacancy_id"`
	Title          string   `gorm:"size:255;not null" json:"title"`
	Content        string   `gorm:"type:mediumtext;not null" json:"content"`
	Type           TestType `gorm:"not null" json:"type"`
	CorrectPercent int      `gorm:"not null" json:"correct_percent"`
}

func (Testing) TableName() string {
	return "testing"
}
