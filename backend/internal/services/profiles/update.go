package profiles

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/enums"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/pkg/validate"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/analytics"
	"github.com/NetworklyINC/Networkly-Main/backend/internal/services/auth"
)

const (
	maxNameLen       = 100
	maxHeadlineLen   = 200
	maxBioLen        = 5000
	maxLocationLen   = 100
	maxUniversityLen = 100
	minGraduation    = 1900
	maxGraduation    = 2100
	maxListItems     = 50
	maxListItemLen   = 50
)

// ProfileUpdate holds the fields a caller wants to change. Nil means untouched;
// an empty URL clears the stored value.
type ProfileUpdate struct {
	Name           *string
	Headline       *string
	Bio            *string
	Location       *string
	University     *string
	GraduationYear *int
	Skills         []string
	SkillsSet      bool
	Interests      []string
	InterestsSet   bool
	Visibility     *string
	LinkedinURL    *string
	GithubURL      *string
	PortfolioURL   *string
}

func (s *Service) UpdateProfile(ctx context.Context, identity auth.Identity, in ProfileUpdate) (model.User, error) {
	if s.deps.Caller == nil || s.deps.Users == nil {
		return model.User{}, ErrDependenciesNil
	}

	current, err := s.deps.Caller.Resolve(ctx, identity)
	if err != nil {
		return model.User{}, err
	}

	if s.deps.Limiter != nil {
		if err := s.deps.Limiter.Enforce(ctx, ActionProfileUpdate, s.cfg.UpdateQuota, strconv.FormatInt(current.ID, 10)); err != nil {
			return model.User{}, err
		}
	}

	patch, err := buildPatch(in)
	if err != nil {
		return model.User{}, err
	}

	updated, err := s.deps.Users.UpdateProfile(ctx, current.ID, patch, s.now().UTC())
	if err != nil {
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}

	s.track(ctx, updated.ID, analytics.EventProfileUpdated, map[string]any{"fields": changedFields(patch)})

	return updated, nil
}

func buildPatch(in ProfileUpdate) (model.ProfilePatch, error) {
	var (
		c     validate.Collector
		patch model.ProfilePatch
	)

	patch.Name = trimmed(in.Name)
	if patch.Name != nil {
		c.MaxLen("name", *patch.Name, maxNameLen)
	}
	patch.Headline = trimmed(in.Headline)
	if patch.Headline != nil {
		c.MaxLen("headline", *patch.Headline, maxHeadlineLen)
	}
	patch.Bio = trimmed(in.Bio)
	if patch.Bio != nil {
		c.MaxLen("bio", *patch.Bio, maxBioLen)
	}
	patch.Location = trimmed(in.Location)
	if patch.Location != nil {
		c.MaxLen("location", *patch.Location, maxLocationLen)
	}
	patch.University = trimmed(in.University)
	if patch.University != nil {
		c.MaxLen("university", *patch.University, maxUniversityLen)
	}
	if in.GraduationYear != nil {
		c.IntRange("graduation_year", *in.GraduationYear, minGraduation, maxGraduation)
		year := *in.GraduationYear
		patch.GraduationYear = &year
	}
	if in.SkillsSet {
		skills := trimList(in.Skills)
		c.List("skills", skills, maxListItems, maxListItemLen)
		patch.Skills = &skills
	}
	if in.InterestsSet {
		interests := trimList(in.Interests)
		c.List("interests", interests, maxListItems, maxListItemLen)
		patch.Interests = &interests
	}
	if in.Visibility != nil {
		visibility, ok := enums.ParseVisibility(*in.Visibility)
		if !ok {
			c.Add("visibility", "must be one of public, private, connections")
		}
		patch.Visibility = &visibility
	}
	patch.LinkedinURL = urlField(&c, "linkedin_url", in.LinkedinURL)
	patch.GithubURL = urlField(&c, "github_url", in.GithubURL)
	patch.PortfolioURL = urlField(&c, "portfolio_url", in.PortfolioURL)

	if err := c.Err(); err != nil {
		return model.ProfilePatch{}, err
	}
	return patch, nil
}

func urlField(c *validate.Collector, field string, raw *string) model.NullableString {
	if raw == nil {
		return model.NullableString{}
	}
	value := strings.TrimSpace(*raw)
	c.OptionalURL(field, value)
	if value == "" {
		return model.NullableString{Set: true}
	}
	return model.NullableString{Set: true, Value: &value}
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func changedFields(patch model.ProfilePatch) []string {
	fields := make([]string, 0, 12)
	add := func(ok bool, name string) {
		if ok {
			fields = append(fields, name)
		}
	}
	add(patch.Name != nil, "name")
	add(patch.Headline != nil, "headline")
	add(patch.Bio != nil, "bio")
	add(patch.Location != nil, "location")
	add(patch.University != nil, "university")
	add(patch.GraduationYear != nil, "graduation_year")
	add(patch.Skills != nil, "skills")
	add(patch.Interests != nil, "interests")
	add(patch.Visibility != nil, "visibility")
	add(patch.LinkedinURL.Set, "linkedin_url")
	add(patch.GithubURL.Set, "github_url")
	add(patch.PortfolioURL.Set, "portfolio_url")
	return fields
}
