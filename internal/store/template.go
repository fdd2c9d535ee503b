package store

import (
	"context"
	"slices"

	"github.com/dukerupert/chorecal/internal/model"
)

func (tx *Tx) Templates() []model.ChoreTemplate {
	return slices.Clone(tx.data.ChoreTemplates)
}

func (tx *Tx) Template(id string) (model.ChoreTemplate, bool) {
	return find(tx.data.ChoreTemplates, id)
}

func (tx *Tx) SaveTemplate(t model.ChoreTemplate) {
	tx.data.ChoreTemplates = upsert(tx.data.ChoreTemplates, t)
}

// DeleteTemplate removes the template and every instance generated from it.
func (tx *Tx) DeleteTemplate(id string) {
	tx.data.ChoreTemplates = remove(tx.data.ChoreTemplates, func(t model.ChoreTemplate) bool { return t.ID != id })
	tx.data.ChoreInstances = remove(tx.data.ChoreInstances, func(i model.ChoreInstance) bool { return i.TemplateID != id })
}

func (s *Store) Templates(ctx context.Context) []model.ChoreTemplate {
	return s.Data(ctx).ChoreTemplates
}

// Template returns nil when no template has the id.
func (s *Store) Template(ctx context.Context, id string) *model.ChoreTemplate {
	t, ok := find(s.Data(ctx).ChoreTemplates, id)
	if !ok {
		return nil
	}
	return &t
}

func (s *Store) SaveTemplate(ctx context.Context, t model.ChoreTemplate) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.SaveTemplate(t)
		return nil
	})
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.DeleteTemplate(id)
		return nil
	})
}
