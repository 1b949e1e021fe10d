package model

type ProgramLanguage string

const (
	LangPython     ProgramLanguage = "python"
	LangGo         ProgramLanguage = "go"
	LangJava       ProgramLanguage = "java"
	LangCpp        ProgramLanguage = "cpp"
	LangJavaScript ProgramLanguage = "javascript"
)

func (l ProgramLanguage) Valid() bool {
	switch l {
	case LangPython, LangGo, LangJava, LangCpp, LangJavaScript:
		return true
	}
	return false
}

// swagger:model TheoreticalQuestion
type TheoreticalQuestion struct {
	UUIDBase
	TestingID     string         `gorm:"index;type:varchar(36);not null" json:"testing_id"`
	Content       string         `gorm:"type:mediumtext;not null" json:"content"`
	AnswerOptions []AnswerOption `gorm:"foreignKey:QuestionID" json:"answer_options"`
}

func (TheoreticalQuestion) TableName() string {
	return "theoretical_questions"
}

// swagger:model AnswerOption
type AnswerOption struct {
	UUIDBase
	QuestionID string `gorm:"index;type:varchar(36);not null" json:"question_id"`
	Content    string `gorm:"size:320;not null" json:"content"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
}

func (AnswerOption) TableName() string {
	return "answer_options"
}

// swagger:model PracticalQuestion
type PracticalQuestion struct {
	UUIDBase
	TestingID string          `gorm:"index;type:varchar(36);not null" json:"testing_id"`
	Content   string          `gorm:"type:mediumtext;not null" json:"content"`
	Language  ProgramLanguage `gorm:"size:32;not null" json:"language"`
	Answer    string          `gorm:"size:255;not null" json:"answer"`
}

func (PracticalQuestion) TableName() string {
	return "practical_questions"
}

// AnswerToTheoreticalQuestion is one chosen option in a finished theoretical test.
type AnswerToTheoreticalQuestion struct {
	AnswerOptionID string `json:"answer_option_id" binding:"required"`
	QuestionID     string `json:"question_id" binding:"required"`
}

// AnswerToPracticalQuestion is one free-form answer in a finished practical test.
type AnswerToPracticalQuestion struct {
	Answer     string `json:"answer"`
	QuestionID string `json:"question_id" binding:"required"`
}
