package model

// swagger:model Attempt
type Attempt struct {
	UUIDBase
	UserID         string `gorm:"index:idx_attempt_user_testing,priority:1;type:varchar(36);not null" json:"user_id"`
	TestingID      string `gorm:"index:idx_attempt_user_testing,priority:2;type:varchar(36);not null" json:"testing_id"`
	CorrectAnswers int    `gorm:"not null;default:0" json:"correct_answers"`
	TotalAnswers   int    `gorm:"not null;default:0" json:"total_answers"`

	Test *Testing `gorm:"foreignKey:TestingID" json:"test,omitempty"`
}

func (Attempt) TableName() string {
	return "attempts"
}

// Percent is the share of correct answers, 0 for an empty test.
func (a *Attempt) Percent() int {
	if a.TotalAnswers == 0 {
		return 0
	}
	return a.CorrectAnswers * 100 / a.TotalAnswers
}
