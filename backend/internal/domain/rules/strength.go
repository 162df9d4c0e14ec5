package rules

import (
	"strings"

	"github.com/NetworklyINC/Networkly-Main/backend/internal/domain/model"
)

const (
	MaxProfileStrength       = 100
	CompleteProfileThreshold = 80
	skillsBonusThreshold     = 5
)

type strengthPredicate struct {
	weight int
	ok     func(u model.User, achievements int) bool
}

// The skills bonus stacks on top of the base skills weight.
var strengthTable = []strengthPredicate{
	{5, func(u model.User, _ int) bool { return present(u.Name) }},
	{10, func(u model.User, _ int) bool { return present(u.Headline) }},
	{10, func(u model.User, _ int) bool { return present(u.Bio) }},
	{5, func(u model.User, _ int) bool { return presentPtr(u.Avatar) }},
	{5, func(u model.User, _ int) bool { return present(u.Location) }},
	{5, func(u model.User, _ int) bool { return present(u.University) }},
	{5, func(u model.User, _ int) bool { return u.GraduationYear != nil }},
	{15, func(u model.User, _ int) bool { return len(u.Skills) > 0 }},
	{5, func(u model.User, _ int) bool { return len(u.Skills) >= skillsBonusThreshold }},
	{10, func(u model.User, _ int) bool { return len(u.Interests) > 0 }},
	{5, func(_ model.User, achievements int) bool { return achievements > 0 }},
	{5, func(u model.User, _ int) bool { return presentPtr(u.LinkedinURL) }},
	{5, func(u model.User, _ int) bool { return presentPtr(u.GithubURL) }},
	{5, func(u model.User, _ int) bool { return presentPtr(u.PortfolioURL) }},
}

// RawProfileStrength sums the weights of every satisfied predicate without capping.
func RawProfileStrength(u model.User, achievements int) int {
	sum := 0
	for _, p := range strengthTable {
		if p.ok(u, achievements) {
			sum += p.weight
		}
	}
	return sum
}

func ProfileStrength(u model.User, achievements int) int {
	score := RawProfileStrength(u, achievements)
	if score > MaxProfileStrength {
		return MaxProfileStrength
	}
	if score < 0 {
		return 0
	}
	return score
}

func IsProfileComplete(score int) bool {
	return score >= CompleteProfileThreshold
}

func present(value string) bool {
	return strings.TrimSpace(value) != ""
}

func presentPtr(value *string) bool {
	return value != nil && present(*value)
}
