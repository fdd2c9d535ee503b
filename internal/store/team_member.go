package store

import (
	"context"
	"slices"

	"github.com/dukerupert/chorecal/internal/model"
)

func (tx *Tx) TeamMembers() []model.TeamMember {
	return slices.Clone(tx.data.TeamMembers)
}

func (tx *Tx) TeamMember(id string) (model.TeamMember, bool) {
	return find(tx.data.TeamMembers, id)
}

func (tx *Tx) SaveTeamMember(m model.TeamMember) {
	tx.data.TeamMembers = upsert(tx.data.TeamMembers, m)
}

func (tx *Tx) DeleteTeamMember(id string) {
	tx.data.TeamMembers = remove(tx.data.TeamMembers, func(m model.TeamMember) bool { return m.ID != id })
}

func (s *Store) TeamMembers(ctx context.Context) []model.TeamMember {
	return s.Data(ctx).TeamMembers
}

// TeamMember returns nil when no member has the id.
func (s *Store) TeamMember(ctx context.Context, id string) *model.TeamMember {
	m, ok := find(s.Data(ctx).TeamMembers, id)
	if !ok {
		return nil
	}
	return &m
}

func (s *Store) SaveTeamMember(ctx context.Context, m model.TeamMember) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.SaveTeamMember(m)
		return nil
	})
}

func (s *Store) DeleteTeamMember(ctx context.Context, id string) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.DeleteTeamMember(id)
		return nil
	})
}
