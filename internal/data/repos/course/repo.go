package course

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/yungbote/coursejobs/internal/domain/course"
	"github.com/yungbote/coursejobs/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/coursejobs/internal/pkg/errors"
	"github.com/yungbote/coursejobs/internal/platform/ctxutil"
	"github.com/yungbote/coursejobs/internal/platform/logger"
)

// Repo is a tenant-scoped table accessor. Reads are filtered by the tenant in
// dbc.Ctx; a system tenant reads every tenant's rows; no tenant is an error.
type Repo[T any] struct {
	db    *gorm.DB
	log   *logger.Logger
	order string
}

func newRepo[T any](db *gorm.DB, baseLog *logger.Logger, name, order string) *Repo[T] {
	return &Repo[T]{
		db:    db,
		log:   baseLog.With("repo", name),
		order: order,
	}
}

func (r *Repo[T]) scoped(dbc dbctx.Context) (*gorm.DB, error) {
	t, ok := ctxutil.TenantFrom(dbc.Ctx)
	if !ok {
		return nil, pkgerrors.ErrNoTenant
	}
	transaction := dbc.DB(r.db)
	if t.System {
		return transaction, nil
	}
	return transaction.Where("client_id = ?", t.ID), nil
}

// checkWrite rejects writes of rows owned by a tenant other than the caller's.
func (r *Repo[T]) checkWrite(dbc dbctx.Context, row *T) error {
	t, ok := ctxutil.TenantFrom(dbc.Ctx)
	if !ok {
		return pkgerrors.ErrNoTenant
	}
	if t.System {
		return nil
	}
	if owned, ok := any(row).(domain.Tenanted); ok && owned.TenantID() != t.ID {
		return fmt.Errorf("%w: row of tenant %s written from tenant %s", pkgerrors.ErrForbidden, owned.TenantID(), t.ID)
	}
	return nil
}

func (r *Repo[T]) GetByID(dbc dbctx.Context, id string) (*T, error) {
	transaction, err := r.scoped(dbc)
	if err != nil {
		return nil, err
	}
	var row T
	if err := transaction.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", id, pkgerrors.ErrNotFound)
		}
		return nil, err
	}
	return &row, nil
}

// ListBy returns rows whose column matches any of values, in the repo's order.
func (r *Repo[T]) ListBy(dbc dbctx.Context, column string, values ...string) ([]*T, error) {
	out := []*T{}
	if len(values) == 0 {
		return out, nil
	}
	transaction, err := r.scoped(dbc)
	if err != nil {
		return nil, err
	}
	q := transaction.Where(column+" IN ?", values)
	if r.order != "" {
		q = q.Order(r.order)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo[T]) Create(dbc dbctx.Context, row *T) error {
	if err := r.checkWrite(dbc, row); err != nil {
		return err
	}
	return dbc.DB(r.db).Create(row).Error
}

func (r *Repo[T]) Save(dbc dbctx.Context, row *T) error {
	if err := r.checkWrite(dbc, row); err != nil {
		return err
	}
	return dbc.DB(r.db).Save(row).Error
}
