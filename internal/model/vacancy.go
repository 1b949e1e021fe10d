package model

type VacancyState int

const (
	VacancyClosed VacancyState = 0
	VacancyOpened VacancyState = 1
)

type VacancyType int

const (
	VacancyPractice   VacancyType = 0
	VacancyInternship VacancyType = 1
)

// swagger:model Vacancy
type Vacancy struct {
	UUIDBase
	Title    string       `gorm:"size:255;not null" json:"title"`
	Content  string       `gorm:"type:mediumtext;not null" json:"content"`
	Poster   *string      `gorm:"type:varchar(36)" json:"poster"`
	Type     VacancyType  `gorm:"not null;default:1" json:"type"`
	State    VacancyState `gorm:"index;not null;default:0" json:"state"`
	TestTime int          `gorm:"not null" json:"test_time"` // days

	Testings []Testing     `gorm:"foreignKey:VacancyID" json:"-"`
	Files    []VacancyFile `gorm:"foreignKey:VacancyID" json:"-"`
}

func (Vacancy) TableName() string {
	return "vacancies"
}

func (v *Vacancy) IsOpened() bool {
	return v.State == VacancyOpened
}

// swagger:model VacancyFile
type VacancyFile struct {
	UUIDBase
	VacancyID   string `gorm:"index;type:varchar(36);not null" json:"vacancy_id"`
	Filename    string `gorm:"size:255;not null" json:"filename"`
	ContentType string `gorm:"size:100;not null" json:"content_type"`
	IsUploaded  bool   `gorm:"default:false" json:"is_uploaded"`
}

func (VacancyFile) TableName() string {
	return "vacancy_files"
}

// ObjectKey is where the file body lives in the attachment bucket.
func (f *VacancyFile) ObjectKey() string {
	return f.VacancyID + "/" + f.ID
}
