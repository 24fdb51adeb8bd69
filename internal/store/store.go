// Package store is a small generic repository over gorm. Every record type
// served by the API goes through a Store[T]; constraint failures reported by the
// database come back as the sentinel errors below.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("duplicate record")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// ListOptions narrows a List call. Zero values mean "everything".
type ListOptions struct {
	OwnerID uint // filter on user_id when non-zero
	Limit   int
	Offset  int
	Preload []string
}

// Store provides CRUD for one record type.
type Store[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

func (s *Store[T]) scoped(ctx context.Context, ownerID uint) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T))
	if ownerID != 0 {
		q = q.Where("user_id = ?", ownerID)
	}
	return q
}

// List returns the matching records ordered by id together with the total
// count before windowing.
func (s *Store[T]) List(ctx context.Context, opts ListOptions) ([]T, int64, error) {
	base := s.scoped(ctx, opts.OwnerID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", translate(err))
	}

	q := base.Session(&gorm.Session{}).Order("id ASC")
	for _, rel := range opts.Preload {
		q = q.Preload(rel)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit).Offset(opts.Offset)
	}

	items := make([]T, 0)
	if err := q.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("list: %w", translate(err))
	}
	return items, total, nil
}

// Get loads the record with the given id. ownerID, when non-zero, must match user_id.
func (s *Store[T]) Get(ctx context.Context, id, ownerID uint) (*T, error) {
	var rec T
	if err := s.scoped(ctx, ownerID).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindOne returns the first record matching the condition.
func (s *Store[T]) FindOne(ctx context.Context, query string, args ...any) (*T, error) {
	var rec T
	if err := s.db.WithContext(ctx).Where(query, args...).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// Exists reports whether a record with the given id is present and, when
// ownerID is non-zero, owned by that user.
func (s *Store[T]) Exists(ctx context.Context, id, ownerID uint) (bool, error) {
	var n int64
	if err := s.scoped(ctx, ownerID).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// Create inserts rec. Associations are never written through.
func (s *Store[T]) Create(ctx context.Context, rec *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Save writes every column of an existing rec.
func (s *Store[T]) Save(ctx context.Context, rec *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(rec).Error; err != nil {
		return translate(err)
	}
	return nil
}

// UpdateColumns writes only the named columns of the record with the given
// id, leaving concurrent changes to other columns intact.
func (s *Store[T]) UpdateColumns(ctx context.Context, id uint, values map[string]any) error {
	if err := s.scoped(ctx, 0).Where("id = ?", id).Updates(values).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Delete removes the record with the given id. Dependent rows follow the
// ON DELETE rules declared on the models.
func (s *Store[T]) Delete(ctx context.Context, id, ownerID uint) error {
	res := s.scoped(ctx, ownerID).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	default:
		return err
	}
}
