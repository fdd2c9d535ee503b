package chore

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/chorecal/internal/model"
	"github.com/dukerupert/chorecal/internal/store"
)

const DefaultAvatarColor = "#3b82f6"

// AvatarColors is the palette offered when adding a team member.
var AvatarColors = []string{
	"#3b82f6", "#ef4444", "#10b981", "#f59e0b",
	"#8b5cf6", "#ec4899", "#14b8a6", "#f97316",
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func (s *Service) Members(ctx context.Context) []model.TeamMember {
	return s.repo.Data(ctx).TeamMembers
}

// SaveMember creates a member when m.ID is empty and updates the existing
// member otherwise.
func (s *Service) SaveMember(ctx context.Context, m model.TeamMember) (model.TeamMember, error) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.AvatarColor = strings.TrimSpace(m.AvatarColor)

	if m.Name == "" {
		return model.TeamMember{}, invalid("name is required")
	}
	if m.Email != "" {
		if _, err := mail.ParseAddress(m.Email); err != nil {
			return model.TeamMember{}, invalid("email %q is not a valid address", m.Email)
		}
	}
	if m.AvatarColor == "" {
		m.AvatarColor = DefaultAvatarColor
	}
	if !hexColor.MatchString(m.AvatarColor) {
		return model.TeamMember{}, invalid("avatar_color must look like #RRGGBB")
	}

	created := m.ID == ""
	err := s.repo.Update(ctx, func(tx *store.Tx) error {
		if created {
			m.ID = "member-" + uuid.NewString()
		} else if _, ok := tx.TeamMember(m.ID); !ok {
			return fmt.Errorf("team member %q: %w", m.ID, ErrNotFound)
		}
		tx.SaveTeamMember(m)
		return nil
	})
	if err != nil {
		return model.TeamMember{}, err
	}

	s.logger.Info("team member saved", "member_id", m.ID, "created", created)
	return m, nil
}

// DeleteMember removes a member. Chores assigned to them are left in place.
func (s *Service) DeleteMember(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, func(tx *store.Tx) error {
		if _, ok := tx.TeamMember(id); !ok {
			return fmt.Errorf("team member %q: %w", id, ErrNotFound)
		}
		tx.DeleteTeamMember(id)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("team member deleted", "member_id", id)
	return nil
}
