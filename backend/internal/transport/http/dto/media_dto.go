package dto

type AvatarResponse struct {
	URL string `json:"url"`
}
