package store

import (
	"context"
	"slices"

	"github.com/dukerupert/chorecal/internal/model"
)

func (tx *Tx) Instances() []model.ChoreInstance {
	return slices.Clone(tx.data.ChoreInstances)
}

func (tx *Tx) Instance(id string) (model.ChoreInstance, bool) {
	return find(tx.data.ChoreInstances, id)
}

func (tx *Tx) SaveInstance(i model.ChoreInstance) {
	tx.data.ChoreInstances = upsert(tx.data.ChoreInstances, i)
}

// SaveInstances upserts each instance in argument order.
func (tx *Tx) SaveInstances(instances []model.ChoreInstance) {
	for _, i := range instances {
		tx.SaveInstance(i)
	}
}

func (tx *Tx) DeleteInstance(id string) {
	tx.data.ChoreInstances = remove(tx.data.ChoreInstances, func(i model.ChoreInstance) bool { return i.ID != id })
}

// ReplaceInstances swaps the whole instance collection, as produced by a
// regeneration.
func (tx *Tx) ReplaceInstances(instances []model.ChoreInstance) {
	tx.data.ChoreInstances = slices.Clone(instances)
	if tx.data.ChoreInstances == nil {
		tx.data.ChoreInstances = []model.ChoreInstance{}
	}
}

func (s *Store) Instances(ctx context.Context) []model.ChoreInstance {
	return s.Data(ctx).ChoreInstances
}

// InstancesDue returns the instances whose due date equals dueDate.
func (s *Store) InstancesDue(ctx context.Context, dueDate string) []model.ChoreInstance {
	var out []model.ChoreInstance
	for _, i := range s.Data(ctx).ChoreInstances {
		if i.DueDate == dueDate {
			out = append(out, i)
		}
	}
	return out
}

// Instance returns nil when no instance has the id.
func (s *Store) Instance(ctx context.Context, id string) *model.ChoreInstance {
	i, ok := find(s.Data(ctx).ChoreInstances, id)
	if !ok {
		return nil
	}
	return &i
}

func (s *Store) SaveInstance(ctx context.Context, i model.ChoreInstance) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.SaveInstance(i)
		return nil
	})
}

func (s *Store) SaveInstances(ctx context.Context, instances []model.ChoreInstance) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.SaveInstances(instances)
		return nil
	})
}

func (s *Store) DeleteInstance(ctx context.Context, id string) error {
	return s.Update(ctx, func(tx *Tx) error {
		tx.DeleteInstance(id)
		return nil
	})
}
