package enums

type AchievementIcon string

const (
	AchievementIconTrophy AchievementIcon = "trophy"
	AchievementIconAward  AchievementIcon = "award"
	AchievementIconStar   AchievementIcon = "star"
)

func (i AchievementIcon) Valid() bool {
	switch i {
	case AchievementIconTrophy, AchievementIconAward, AchievementIconStar:
		return true
	default:
		return false
	}
}
