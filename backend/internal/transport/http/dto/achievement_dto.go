package dto

type CreateAchievementRequest struct {
	Title string `json:"title"`
	Date  string `json:"date"`
	Icon  string `json:"icon"`
}

type CreateExtracurricularRequest struct {
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Type         string `json:"type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
}
