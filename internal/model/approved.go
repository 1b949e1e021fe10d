package model

import "time"

// ApprovedTesting is one passed testing inside an approved-candidate row.
type ApprovedTesting struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	BestPercent int    `json:"best_percent"`
}

// ApprovedRequest is a candidate who passed every testing of a vacancy.
type ApprovedRequest struct {
	UserID           string            `json:"user_id"`
	VacancyID        string            `json:"vacancy_id"`
	VacancyTitle     string            `json:"vacancy_title"`
	VacancyState     VacancyState      `json:"vacancy_state"`
	VacancyType      VacancyType       `json:"vacancy_type"`
	VacancyCreatedAt time.Time         `json:"vacancy_created_at"`
	Testings         []ApprovedTesting `json:"testings"`
}
