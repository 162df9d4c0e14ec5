package dto

type UpdateProfileRequest struct {
	Name           *string   `json:"name"`
	Headline       *string   `json:"headline"`
	Bio            *string   `json:"bio"`
	Location       *string   `json:"location"`
	University     *string   `json:"university"`
	GraduationYear *int      `json:"graduation_year"`
	Skills         *[]string `json:"skills"`
	Interests      *[]string `json:"interests"`
	Visibility     *string   `json:"visibility"`
	LinkedinURL    *string   `json:"linkedin_url"`
	GithubURL      *string   `json:"github_url"`
	PortfolioURL   *string   `json:"portfolio_url"`
}

type ProfileStrengthResponse struct {
	UserID int64 `json:"user_id"`
	Score  int   `json:"score"`
}

type ProfileCompletenessResponse struct {
	Score           int  `json:"score"`
	ProfileComplete bool `json:"profile_complete"`
}
