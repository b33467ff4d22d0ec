package db

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"VideoHub.com/pkg/errno"
)

// Filter 列名到取值的等值条件, 值为 nil 表示 IS NULL
type Filter map[string]interface{}

type Sort struct {
	Column string
	Desc   bool
}

type Page[T any] struct {
	Items []*T
	Total int64
}

// Collection 对单张表的通用文档式访问
type Collection[T any] struct {
	db   *gorm.DB
	name string
	pk   string
}

func NewCollection[T any](db *gorm.DB, name, pk string) *Collection[T] {
	return &Collection[T]{db: db, name: name, pk: pk}
}

func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) model(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Model(new(T))
}

func (c *Collection[T]) storeErr(err error, op string) error {
	return errors.WithMessagef(errno.StoreUnavailableErr.WithMessage(err.Error()), "%s %s", op, c.name)
}

func applyFilter(tx *gorm.DB, filter Filter) *gorm.DB {
	// 固定列顺序, 便于预编译语句复用
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := filter[k]
		if v == nil {
			tx = tx.Where(clause.Expr{SQL: "? IS NULL", Vars: []interface{}{clause.Column{Name: k}}})
			continue
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: k}, Value: v})
	}
	return tx
}

func applySort(tx *gorm.DB, sorts []Sort) *gorm.DB {
	for _, s := range sorts {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}
	return tx
}

// FindOne 按条件取一条, 不存在时 ok 为 false
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, bool, error) {
	out := new(T)
	err := applyFilter(c.model(ctx), filter).Take(out).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, c.storeErr(err, "find one")
	}
	return out, true, nil
}

// Get 按主键取一条, 不存在时返回 NotFoundErr
func (c *Collection[T]) Get(ctx context.Context, id int64) (*T, error) {
	out, ok, err := c.FindOne(ctx, Filter{c.pk: id})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errno.NotFoundErr.WithMessage(c.name + " not found")
	}
	return out, nil
}

func (c *Collection[T]) FindPage(ctx context.Context, filter Filter, sorts []Sort, offset, limit int) (*Page[T], error) {
	page := &Page[T]{Items: make([]*T, 0)}
	if err := applyFilter(c.model(ctx), filter).Count(&page.Total).Error; err != nil {
		return nil, c.storeErr(err, "count")
	}
	if page.Total == 0 || int64(offset) >= page.Total {
		return page, nil
	}
	tx := applySort(applyFilter(c.model(ctx), filter), sorts).Offset(offset)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&page.Items).Error; err != nil {
		return nil, c.storeErr(err, "find page")
	}
	return page, nil
}

func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	var n int64
	if err := applyFilter(c.model(ctx), filter).Count(&n).Error; err != nil {
		return 0, c.storeErr(err, "count")
	}
	return n, nil
}

func (c *Collection[T]) Exists(ctx context.Context, filter Filter) (bool, error) {
	var ids []int64
	err := applyFilter(c.model(ctx), filter).Limit(1).Pluck(c.pk, &ids).Error
	if err != nil {
		return false, c.storeErr(err, "exists")
	}
	return len(ids) > 0, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	if err := c.db.WithContext(ctx).Create(doc).Error; err != nil {
		return c.storeErr(err, "insert")
	}
	return nil
}

// Update 整行覆盖 (主键与创建时间除外), 行不存在时返回 NotFoundErr
func (c *Collection[T]) Update(ctx context.Context, id int64, doc *T) error {
	res := c.db.WithContext(ctx).Model(doc).
		Where(clause.Eq{Column: clause.Column{Name: c.pk}, Value: id}).
		Select("*").Omit(c.pk, "created_at").
		Updates(doc)
	if res.Error != nil {
		return c.storeErr(res.Error, "update")
	}
	if res.RowsAffected == 0 {
		return errno.NotFoundErr.WithMessage(c.name + " not found")
	}
	return nil
}

// DeleteByID 返回实际删除的行数, 并发删除时可能为 0
func (c *Collection[T]) DeleteByID(ctx context.Context, id int64) (int64, error) {
	res := c.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: c.pk}, Value: id}).
		Delete(new(T))
	if res.Error != nil {
		return 0, c.storeErr(res.Error, "delete")
	}
	return res.RowsAffected, nil
}

func (c *Collection[T]) DeleteWhere(ctx context.Context, filter Filter) (int64, error) {
	if len(filter) == 0 {
		return 0, errno.RequestErr.WithMessage("refusing to delete without filter")
	}
	res := applyFilter(c.db.WithContext(ctx), filter).Delete(new(T))
	if res.Error != nil {
		return 0, c.storeErr(res.Error, "delete")
	}
	return res.RowsAffected, nil
}

// Increment 原子地给计数列加上 delta
func (c *Collection[T]) Increment(ctx context.Context, id int64, column string, delta int64) error {
	res := c.model(ctx).
		Where(clause.Eq{Column: clause.Column{Name: c.pk}, Value: id}).
		UpdateColumn(column, gorm.Expr("? + ?", clause.Column{Name: column}, delta))
	if res.Error != nil {
		return c.storeErr(res.Error, "increment")
	}
	if res.RowsAffected == 0 {
		return errno.NotFoundErr.WithMessage(c.name + " not found")
	}
	return nil
}

// FindByIDs 结果顺序不保证与 ids 一致
func (c *Collection[T]) FindByIDs(ctx context.Context, ids []int64) ([]*T, error) {
	out := make([]*T, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	err := c.model(ctx).Where(clause.IN{Column: clause.Column{Name: c.pk}, Values: int64sToValues(ids)}).Find(&out).Error
	if err != nil {
		return nil, c.storeErr(err, "find by ids")
	}
	return out, nil
}

// FindOrInsert 依赖唯一索引实现原子的 "不存在则插入".
// inserted 为 false 时返回已存在的行; 若冲突行随即被并发删除, 返回 (nil, false, nil).
func (c *Collection[T]) FindOrInsert(ctx context.Context, filter Filter, doc *T) (*T, bool, error) {
	res := c.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(doc)
	if res.Error != nil {
		return nil, false, c.storeErr(res.Error, "insert")
	}
	if res.RowsAffected == 1 {
		return doc, true, nil
	}
	existing, ok, err := c.FindOne(ctx, filter)
	if err != nil || !ok {
		return nil, false, err
	}
	return existing, false, nil
}

func int64sToValues(ids []int64) []interface{} {
	vals := make([]interface{}, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	return vals
}
