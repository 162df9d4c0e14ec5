package rules

import (
	"testing"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

func TestProfileStrengthNameOnly(t *testing.T) {
	got := ProfileStrength(model.User{Name: "Ada"}, 0)
	if got != 5 {
		t.Fatalf("unexpected strength: got %d want 5", got)
	}
}

func TestProfileStrengthEmptyUser(t *testing.T) {
	if got := ProfileStrength(model.User{}, 0); got != 0 {
		t.Fatalf("unexpected strength: got %d want 0", got)
	}
}

func TestProfileStrengthIgnoresBlankStrings(t *testing.T) {
	blank := "   "
	got := ProfileStrength(model.User{Name: "  ", Headline: "\t", LinkedinURL: &blank}, 0)
	if got != 0 {
		t.Fatalf("blank fields must not score: got %d", got)
	}
}

func TestProfileStrengthFullProfile(t *testing.T) {
	u := fullUser()

	raw := RawProfileStrength(u, 3)
	if raw != 95 {
		t.Fatalf("unexpected raw sum: got %d want 95", raw)
	}
	if got := ProfileStrength(u, 3); got != 95 {
		t.Fatalf("unexpected strength: got %d want 95", got)
	}
}

func TestProfileStrengthAllUserFieldsWithoutAchievements(t *testing.T) {
	if raw := RawProfileStrength(fullUser(), 0); raw != 90 {
		t.Fatalf("unexpected raw sum: got %d want 90", raw)
	}
}

func TestProfileStrengthSkillsBonusIsAdditive(t *testing.T) {
	tests := []struct {
		name   string
		skills []string
		want   int
	}{
		{name: "no skills", skills: nil, want: 0},
		{name: "one skill", skills: []string{"go"}, want: 15},
		{name: "four skills", skills: []string{"go", "sql", "k8s", "redis"}, want: 15},
		{name: "five skills", skills: []string{"go", "sql", "k8s", "redis", "kafka"}, want: 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ProfileStrength(model.User{Skills: tc.skills}, 0); got != tc.want {
				t.Fatalf("unexpected strength: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestProfileStrengthAchievementsCount(t *testing.T) {
	if got := ProfileStrength(model.User{}, 1); got != 5 {
		t.Fatalf("unexpected strength: got %d want 5", got)
	}
}

func TestProfileStrengthIsCapped(t *testing.T) {
	saved := strengthTable
	defer func() { strengthTable = saved }()
	strengthTable = append(append([]strengthPredicate(nil), saved...), strengthPredicate{
		weight: 20,
		ok:     func(model.User, int) bool { return true },
	})

	u := fullUser()
	if raw := RawProfileStrength(u, 1); raw != 115 {
		t.Fatalf("unexpected raw sum: got %d want 115", raw)
	}
	if got := ProfileStrength(u, 1); got != MaxProfileStrength {
		t.Fatalf("expected cap at %d, got %d", MaxProfileStrength, got)
	}
}

func TestIsProfileComplete(t *testing.T) {
	if IsProfileComplete(79) {
		t.Fatalf("79 must not be complete")
	}
	if !IsProfileComplete(80) {
		t.Fatalf("80 must be complete")
	}
}

func fullUser() model.User {
	year := 2027
	return model.User{
		Name:           "Ada Lovelace",
		Headline:       "Engineer",
		Bio:            "Writes programs",
		Avatar:         strPtr("https://cdn.example.com/a.png"),
		Location:       "London",
		University:     "UCL",
		GraduationYear: &year,
		Skills:         []string{"go", "sql", "k8s", "redis", "kafka"},
		Interests:      []string{"math"},
		LinkedinURL:    strPtr("https://linkedin.com/in/ada"),
		GithubURL:      strPtr("https://github.com/ada"),
		PortfolioURL:   strPtr("https://ada.dev"),
	}
}

func strPtr(v string) *string {
	return &v
}
