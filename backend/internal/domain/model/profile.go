package model

import (
	"time"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
)

type Achievement struct {
	ID        int64                 `json:"id"`
	UserID    int64                 `json:"user_id"`
	Title     string                `json:"title"`
	Date      string                `json:"date"`
	Icon      enums.AchievementIcon `json:"icon"`
	CreatedAt time.Time             `json:"created_at"`
}

type Extracurricular struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Organization string    `json:"organization"`
	Type         string    `json:"type"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	Description  string    `json:"description"`
	Logo         *string   `json:"logo"`
	CreatedAt    time.Time `json:"created_at"`
}

type Recommendation struct {
	ID           int64     `json:"id"`
	ReceiverID   int64     `json:"receiver_id"`
	AuthorID     int64     `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorRole   string    `json:"author_role"`
	AuthorAvatar *string   `json:"author_avatar"`
	Content      string    `json:"content"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// ProfileBundle is the read model returned for one profile view. It is rebuilt on every read.
type ProfileBundle struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Avatar            *string           `json:"avatar"`
	Headline          string            `json:"headline"`
	Bio               string            `json:"bio"`
	Location          string            `json:"location"`
	University        string            `json:"university"`
	GraduationYear    *string           `json:"graduation_year"`
	Skills            []string          `json:"skills"`
	Interests         []string          `json:"interests"`
	Visibility        enums.Visibility  `json:"visibility"`
	LinkedinURL       *string           `json:"linkedin_url"`
	GithubURL         *string           `json:"github_url"`
	PortfolioURL      *string           `json:"portfolio_url"`
	Connections       int               `json:"connections"`
	ProfileViews      int               `json:"profile_views"`
	SearchAppearances int               `json:"search_appearances"`
	CompletedProjects int               `json:"completed_projects"`
	Achievements      []Achievement     `json:"achievements"`
	Extracurriculars  []Extracurricular `json:"extracurriculars"`
	Recommendations   []Recommendation  `json:"recommendations"`
}
