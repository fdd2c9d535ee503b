package model

type TeamMember struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	AvatarColor string `json:"avatar_color"`
}

func (m TeamMember) RecordID() string { return m.ID }
