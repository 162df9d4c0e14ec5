package model

import (
	"time"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
)

type User struct {
	ID                int64            `json:"id"`
	ProviderID        string           `json:"provider_id"`
	Name              string           `json:"name"`
	Avatar            *string          `json:"avatar"`
	Bio               string           `json:"bio"`
	Headline          string           `json:"headline"`
	Location          string           `json:"location"`
	University        string           `json:"university"`
	GraduationYear    *int             `json:"graduation_year"`
	Skills            []string         `json:"skills"`
	Interests         []string         `json:"interests"`
	LinkedinURL       *string          `json:"linkedin_url"`
	GithubURL         *string          `json:"github_url"`
	PortfolioURL      *string          `json:"portfolio_url"`
	Visibility        enums.Visibility `json:"visibility"`
	Connections       int              `json:"connections"`
	ProfileViews      int              `json:"profile_views"`
	SearchAppearances int              `json:"search_appearances"`
	CompletedProjects int              `json:"completed_projects"`
	ProfileComplete   bool             `json:"profile_complete"`
	CreatedAt         time.Time        `json:"created_at"`
	ProfileUpdatedAt  time.Time        `json:"profile_updated_at"`
	LastViewedAt      *time.Time       `json:"last_viewed_at"`
}

// NullableString is a column assignment that can write NULL.
// Set=false leaves the column untouched; Set=true with a nil Value clears it.
type NullableString struct {
	Set   bool
	Value *string
}

// ProfilePatch is the normalized set of column changes applied by one profile update.
type ProfilePatch struct {
	Name           *string
	Headline       *string
	Bio            *string
	Location       *string
	University     *string
	GraduationYear *int
	Skills         *[]string
	Interests      *[]string
	Visibility     *enums.Visibility
	LinkedinURL    NullableString
	GithubURL      NullableString
	PortfolioURL   NullableString
}
