package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper quotes LIKE wildcards with '!'.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// GormStore keeps records in a relational table through gorm.
type GormStore[T Record[T]] struct {
	db        *gorm.DB
	newRecord func() T
	opts      options
}

// NewGormStore returns a store over the table of the records built by newRecord.
func NewGormStore[T Record[T]](db *gorm.DB, newRecord func() T, opts ...Option) *GormStore[T] {
	return &GormStore[T]{db: db, newRecord: newRecord, opts: buildOptions(opts)}
}

func (s *GormStore[T]) Insert(ctx context.Context, rec T) (string, error) {
	rec.AssignID(uuid.NewString())
	rec.MarkCreated(s.opts.now())
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return "", translate(err)
	}
	return rec.GetID(), nil
}

func (s *GormStore[T]) Get(ctx context.Context, id string) (T, error) {
	rec := s.newRecord()
	if err := s.db.WithContext(ctx).First(rec, "id = ?", id).Error; err != nil {
		var zero T
		return zero, translate(err)
	}
	return rec, nil
}

func (s *GormStore[T]) List(ctx context.Context, q Query) ([]T, error) {
	tx := s.db.WithContext(ctx).Model(s.newRecord())
	for _, f := range q.Filters {
		if f.Value == "" {
			continue
		}
		col := clause.Column{Name: f.Column}
		switch f.Match {
		case Contains:
			tx = tx.Where("LOWER(?) LIKE ? ESCAPE '!'", col, "%"+likeEscaper.Replace(strings.ToLower(f.Value))+"%")
		case EqualFold:
			tx = tx.Where("LOWER(?) = ?", col, strings.ToLower(f.Value))
		default:
			tx = tx.Where("? = ?", col, f.Value)
		}
	}
	for _, o := range q.Order {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if len(q.Order) == 0 {
		tx = tx.Order("created_at asc")
	}

	var out []T
	if err := tx.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *GormStore[T]) Update(ctx context.Context, id string, mutate func(T) error) (T, error) {
	var updated T
	var rejected error
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := s.newRecord()
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(rec, "id = ?", id).Error; err != nil {
			return err
		}
		if err := mutate(rec); err != nil {
			rejected = err
			return err
		}
		rec.AssignID(id)
		rec.MarkUpdated(s.opts.now())
		if err := tx.Save(rec).Error; err != nil {
			return err
		}
		updated = rec
		return nil
	})
	var zero T
	if rejected != nil {
		return zero, rejected
	}
	if err != nil {
		return zero, translate(err)
	}
	return updated, nil
}

func (s *GormStore[T]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(s.newRecord(), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore[T]) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(s.newRecord()).Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return int(n), nil
}

// translate maps gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
