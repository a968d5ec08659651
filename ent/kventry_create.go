// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/agentexec/agentexec/ent/kventry"
)

// KVEntryCreate is the builder for creating a KVEntry entity.
type KVEntryCreate struct {
	config
	mutation *KVEntryMutation
	hooks    []Hook
	conflict []sql.ConflictOption
}

// SetValue sets the "value" field.
func (_c *KVEntryCreate) SetValue(v []byte) *KVEntryCreate {
	_c.mutation.SetValue(v)
	return _c
}

// SetExpiresAt sets the "expires_at" field.
func (_c *KVEntryCreate) SetExpiresAt(v time.Time) *KVEntryCreate {
	_c.mutation.SetExpiresAt(v)
	return _c
}

// SetNillableExpiresAt sets the "expires_at" field if the given value is not nil.
func (_c *KVEntryCreate) SetNillableExpiresAt(v *time.Time) *KVEntryCreate {
	if v != nil {
		_c.SetExpiresAt(*v)
	}
	return _c
}

// SetUpdatedAt sets the "updated_at" field.
func (_c *KVEntryCreate) SetUpdatedAt(v time.Time) *KVEntryCreate {
	_c.mutation.SetUpdatedAt(v)
	return _c
}

// SetNillableUpdatedAt sets the "updated_at" field if the given value is not nil.
func (_c *KVEntryCreate) SetNillableUpdatedAt(v *time.Time) *KVEntryCreate {
	if v != nil {
		_c.SetUpdatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *KVEntryCreate) SetID(v string) *KVEntryCreate {
	_c.mutation.SetID(v)
	return _c
}

// Mutation returns the KVEntryMutation object of the builder.
func (_c *KVEntryCreate) Mutation() *KVEntryMutation {
	return _c.mutation
}

// Save creates the KVEntry in the database.
func (_c *KVEntryCreate) Save(ctx context.Context) (*KVEntry, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *KVEntryCreate) SaveX(ctx context.Context) *KVEntry {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *KVEntryCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *KVEntryCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *KVEntryCreate) defaults() {
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		v := kventry.DefaultUpdatedAt()
		_c.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *KVEntryCreate) check() error {
	if _, ok := _c.mutation.Value(); !ok {
		return &ValidationError{Name: "value", err: errors.New(`ent: missing required field "KVEntry.value"`)}
	}
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		return &ValidationError{Name: "updated_at", err: errors.New(`ent: missing required field "KVEntry.updated_at"`)}
	}
	return nil
}

func (_c *KVEntryCreate) sqlSave(ctx context.Context) (*KVEntry, error) {
	if err := _c.check(); err != nil {
		return nil, err
	}
	_node, _spec := _c.createSpec()
	if err := sqlgraph.CreateNode(ctx, _c.driver, _spec); err != nil {
		if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	if _spec.ID.Value != nil {
		if id, ok := _spec.ID.Value.(string); ok {
			_node.ID = id
		} else {
			return nil, fmt.Errorf("unexpected KVEntry.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *KVEntryCreate) createSpec() (*KVEntry, *sqlgraph.CreateSpec) {
	var (
		_node = &KVEntry{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(kventry.Table, sqlgraph.NewFieldSpec(kventry.FieldID, field.TypeString))
	)
	_spec.OnConflict = _c.conflict
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.Value(); ok {
		_spec.SetField(kventry.FieldValue, field.TypeBytes, value)
		_node.Value = value
	}
	if value, ok := _c.mutation.ExpiresAt(); ok {
		_spec.SetField(kventry.FieldExpiresAt, field.TypeTime, value)
		_node.ExpiresAt = &value
	}
	if value, ok := _c.mutation.UpdatedAt(); ok {
		_spec.SetField(kventry.FieldUpdatedAt, field.TypeTime, value)
		_node.UpdatedAt = value
	}
	return _node, _spec
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement. For example:
//
//	client.KVEntry.Create().
//		SetValue(v).
//		OnConflict(
//			// Update the row with the new values
//			// the was proposed for insertion.
//			sql.ResolveWithNewValues(),
//		).
//		// Override some of the fields with custom
//		// update values.
//		Update(func(u *ent.KVEntryUpsert) {
//			SetValue(v+v).
//		}).
//		Exec(ctx)
func (_c *KVEntryCreate) OnConflict(opts ...sql.ConflictOption) *KVEntryUpsertOne {
	_c.conflict = opts
	return &KVEntryUpsertOne{
		create: _c,
	}
}

// OnConflictColumns calls `OnConflict` and configures the columns
// as conflict target. Using this option is equivalent to using:
//
//	client.KVEntry.Create().
//		OnConflict(sql.ConflictColumns(columns...)).
//		Exec(ctx)
func (_c *KVEntryCreate) OnConflictColumns(columns ...string) *KVEntryUpsertOne {
	_c.conflict = append(_c.conflict, sql.ConflictColumns(columns...))
	return &KVEntryUpsertOne{
		create: _c,
	}
}

type (
	// KVEntryUpsertOne is the builder for "upsert"-ing
	//  one KVEntry node.
	KVEntryUpsertOne struct {
		create *KVEntryCreate
	}

	// KVEntryUpsert is the "OnConflict" setter.
	KVEntryUpsert struct {
		*sql.UpdateSet
	}
)

// SetValue sets the "value" field.
func (u *KVEntryUpsert) SetValue(v []byte) *KVEntryUpsert {
	u.Set(kventry.FieldValue, v)
	return u
}

// UpdateValue sets the "value" field to the value that was provided on create.
func (u *KVEntryUpsert) UpdateValue() *KVEntryUpsert {
	u.SetExcluded(kventry.FieldValue)
	return u
}

// SetExpiresAt sets the "expires_at" field.
func (u *KVEntryUpsert) SetExpiresAt(v time.Time) *KVEntryUpsert {
	u.Set(kventry.FieldExpiresAt, v)
	return u
}

// UpdateExpiresAt sets the "expires_at" field to the value that was provided on create.
func (u *KVEntryUpsert) UpdateExpiresAt() *KVEntryUpsert {
	u.SetExcluded(kventry.FieldExpiresAt)
	return u
}

// ClearExpiresAt clears the value of the "expires_at" field.
func (u *KVEntryUpsert) ClearExpiresAt() *KVEntryUpsert {
	u.SetNull(kventry.FieldExpiresAt)
	return u
}

// SetUpdatedAt sets the "updated_at" field.
func (u *KVEntryUpsert) SetUpdatedAt(v time.Time) *KVEntryUpsert {
	u.Set(kventry.FieldUpdatedAt, v)
	return u
}

// UpdateUpdatedAt sets the "updated_at" field to the value that was provided on create.
func (u *KVEntryUpsert) UpdateUpdatedAt() *KVEntryUpsert {
	u.SetExcluded(kventry.FieldUpdatedAt)
	return u
}

// UpdateNewValues updates the mutable fields using the new values that were set on create except the ID field.
// Using this option is equivalent to using:
//
//	client.KVEntry.Create().
//		OnConflict(
//			sql.ResolveWithNewValues(),
//			sql.ResolveWith(func(u *sql.UpdateSet) {
//				u.SetIgnore(kventry.FieldID)
//			}),
//		).
//		Exec(ctx)
func (u *KVEntryUpsertOne) UpdateNewValues() *KVEntryUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithNewValues())
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(s *sql.UpdateSet) {
		if _, exists := u.create.mutation.ID(); exists {
			s.SetIgnore(kventry.FieldID)
		}
	}))
	return u
}

// Ignore sets each column to itself in case of conflict.
// Using this option is equivalent to using:
//
//	client.KVEntry.Create().
//	    OnConflict(sql.ResolveWithIgnore()).
//	    Exec(ctx)
func (u *KVEntryUpsertOne) Ignore() *KVEntryUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithIgnore())
	return u
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported only by SQLite and PostgreSQL.
func (u *KVEntryUpsertOne) DoNothing() *KVEntryUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.DoNothing())
	return u
}

// Update allows overriding fields `UPDATE` values. See the KVEntryCreate.OnConflict
// documentation for more info.
func (u *KVEntryUpsertOne) Update(set func(*KVEntryUpsert)) *KVEntryUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(update *sql.UpdateSet) {
		set(&KVEntryUpsert{UpdateSet: update})
	}))
	return u
}

// SetValue sets the "value" field.
func (u *KVEntryUpsertOne) SetValue(v []byte) *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.SetValue(v)
	})
}

// UpdateValue sets the "value" field to the value that was provided on create.
func (u *KVEntryUpsertOne) UpdateValue() *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.UpdateValue()
	})
}

// SetExpiresAt sets the "expires_at" field.
func (u *KVEntryUpsertOne) SetExpiresAt(v time.Time) *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.SetExpiresAt(v)
	})
}

// UpdateExpiresAt sets the "expires_at" field to the value that was provided on create.
func (u *KVEntryUpsertOne) UpdateExpiresAt() *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.UpdateExpiresAt()
	})
}

// ClearExpiresAt clears the value of the "expires_at" field.
func (u *KVEntryUpsertOne) ClearExpiresAt() *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.ClearExpiresAt()
	})
}

// SetUpdatedAt sets the "updated_at" field.
func (u *KVEntryUpsertOne) SetUpdatedAt(v time.Time) *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.SetUpdatedAt(v)
	})
}

// UpdateUpdatedAt sets the "updated_at" field to the value that was provided on create.
func (u *KVEntryUpsertOne) UpdateUpdatedAt() *KVEntryUpsertOne {
	return u.Update(func(s *KVEntryUpsert) {
		s.UpdateUpdatedAt()
	})
}

// Exec executes the query.
func (u *KVEntryUpsertOne) Exec(ctx context.Context) error {
	if len(u.create.conflict) == 0 {
		return errors.New("ent: missing options for KVEntryCreate.OnConflict")
	}
	return u.create.Exec(ctx)
}

// ExecX is like Exec, but panics if an error occurs.
func (u *KVEntryUpsertOne) ExecX(ctx context.Context) {
	if err := u.create.Exec(ctx); err != nil {
		panic(err)
	}
}

// Exec executes the UPSERT query and returns the inserted/updated ID.
func (u *KVEntryUpsertOne) ID(ctx context.Context) (id string, err error) {
	if u.create.driver.Dialect() == dialect.MySQL {
		// In case of "ON CONFLICT", there is no way to get back non-numeric ID
		// fields from the database since MySQL does not support the RETURNING clause.
		return id, errors.New("ent: KVEntryUpsertOne.ID is not supported by MySQL driver. Use KVEntryUpsertOne.Exec instead")
	}
	node, err := u.create.Save(ctx)
	if err != nil {
		return id, err
	}
	return node.ID, nil
}

// IDX is like ID, but panics if an error occurs.
func (u *KVEntryUpsertOne) IDX(ctx context.Context) string {
	id, err := u.ID(ctx)
	if err != nil {
		panic(err)
	}
	return id
}

// KVEntryCreateBulk is the builder for creating many KVEntry entities in bulk.
type KVEntryCreateBulk struct {
	config
	err      error
	builders []*KVEntryCreate
	conflict []sql.ConflictOption
}

// Save creates the KVEntry entities in the database.
func (_c *KVEntryCreateBulk) Save(ctx context.Context) ([]*KVEntry, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*KVEntry, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*KVEntryMutation)
				if !ok {
					return nil, fmt.Errorf("unexpected mutation type %T", m)
				}
				if err := builder.check(); err != nil {
					return nil, err
				}
				builder.mutation = mutation
				var err error
				nodes[i], specs[i] = builder.createSpec()
				if i < len(mutators)-1 {
					_, err = mutators[i+1].Mutate(root, _c.builders[i+1].mutation)
				} else {
					spec := &sqlgraph.BatchCreateSpec{Nodes: specs}
					spec.OnConflict = _c.conflict
					// Invoke the actual operation on the latest mutation in the chain.
					if err = sqlgraph.BatchCreate(ctx, _c.driver, spec); err != nil {
						if sqlgraph.IsConstraintError(err) {
							err = &ConstraintError{msg: err.Error(), wrap: err}
						}
					}
				}
				if err != nil {
					return nil, err
				}
				mutation.id = &nodes[i].ID
				mutation.done = true
				return nodes[i], nil
			})
			for i := len(builder.hooks) - 1; i >= 0; i-- {
				mut = builder.hooks[i](mut)
			}
			mutators[i] = mut
		}(i, ctx)
	}
	if len(mutators) > 0 {
		if _, err := mutators[0].Mutate(ctx, _c.builders[0].mutation); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// SaveX is like Save, but panics if an error occurs.
func (_c *KVEntryCreateBulk) SaveX(ctx context.Context) []*KVEntry {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *KVEntryCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *KVEntryCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement. For example:
//
//	client.KVEntry.CreateBulk(builders...).
//		OnConflict(
//			// Update the row with the new values
//			// the was proposed for insertion.
//			sql.ResolveWithNewValues(),
//		).
//		// Override some of the fields with custom
//		// update values.
//		Update(func(u *ent.KVEntryUpsert) {
//			SetValue(v+v).
//		}).
//		Exec(ctx)
func (_c *KVEntryCreateBulk) OnConflict(opts ...sql.ConflictOption) *KVEntryUpsertBulk {
	_c.conflict = opts
	return &KVEntryUpsertBulk{
		create: _c,
	}
}

// OnConflictColumns calls `OnConflict` and configures the columns
// as conflict target. Using this option is equivalent to using:
//
//	client.KVEntry.Create().
//		OnConflict(sql.ConflictColumns(columns...)).
//		Exec(ctx)
func (_c *KVEntryCreateBulk) OnConflictColumns(columns ...string) *KVEntryUpsertBulk {
	_c.conflict = append(_c.conflict, sql.ConflictColumns(columns...))
	return &KVEntryUpsertBulk{
		create: _c,
	}
}

// KVEntryUpsertBulk is the builder for "upsert"-ing
// a bulk of KVEntry nodes.
type KVEntryUpsertBulk struct {
	create *KVEntryCreateBulk
}

// UpdateNewValues updates the mutable fields using the new values that
// were set on create. Using this option is equivalent to using:
//
//	client.KVEntry.Create().
//		OnConflict(
//			sql.ResolveWithNewValues(),
//			sql.ResolveWith(func(u *sql.UpdateSet) {
//				u.SetIgnore(kventry.FieldID)
//			}),
//		).
//		Exec(ctx)
func (u *KVEntryUpsertBulk) UpdateNewValues() *KVEntryUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithNewValues())
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(s *sql.UpdateSet) {
		for _, b := range u.create.builders {
			if _, exists := b.mutation.ID(); exists {
				s.SetIgnore(kventry.FieldID)
			}
		}
	}))
	return u
}

// Ignore sets each column to itself in case of conflict.
// Using this option is equivalent to using:
//
//	client.KVEntry.Create().
//		OnConflict(sql.ResolveWithIgnore()).
//		Exec(ctx)
func (u *KVEntryUpsertBulk) Ignore() *KVEntryUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithIgnore())
	return u
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported only by SQLite and PostgreSQL.
func (u *KVEntryUpsertBulk) DoNothing() *KVEntryUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.DoNothing())
	return u
}

// Update allows overriding fields `UPDATE` values. See the KVEntryCreateBulk.OnConflict
// documentation for more info.
func (u *KVEntryUpsertBulk) Update(set func(*KVEntryUpsert)) *KVEntryUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(update *sql.UpdateSet) {
		set(&KVEntryUpsert{UpdateSet: update})
	}))
	return u
}

// SetValue sets the "value" field.
func (u *KVEntryUpsertBulk) SetValue(v []byte) *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.SetValue(v)
	})
}

// UpdateValue sets the "value" field to the value that was provided on create.
func (u *KVEntryUpsertBulk) UpdateValue() *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.UpdateValue()
	})
}

// SetExpiresAt sets the "expires_at" field.
func (u *KVEntryUpsertBulk) SetExpiresAt(v time.Time) *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.SetExpiresAt(v)
	})
}

// UpdateExpiresAt sets the "expires_at" field to the value that was provided on create.
func (u *KVEntryUpsertBulk) UpdateExpiresAt() *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.UpdateExpiresAt()
	})
}

// ClearExpiresAt clears the value of the "expires_at" field.
func (u *KVEntryUpsertBulk) ClearExpiresAt() *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.ClearExpiresAt()
	})
}

// SetUpdatedAt sets the "updated_at" field.
func (u *KVEntryUpsertBulk) SetUpdatedAt(v time.Time) *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.SetUpdatedAt(v)
	})
}

// UpdateUpdatedAt sets the "updated_at" field to the value that was provided on create.
func (u *KVEntryUpsertBulk) UpdateUpdatedAt() *KVEntryUpsertBulk {
	return u.Update(func(s *KVEntryUpsert) {
		s.UpdateUpdatedAt()
	})
}

// Exec executes the query.
func (u *KVEntryUpsertBulk) Exec(ctx context.Context) error {
	if u.create.err != nil {
		return u.create.err
	}
	for i, b := range u.create.builders {
		if len(b.conflict) != 0 {
			return fmt.Errorf("ent: OnConflict was set for builder %d. Set it on the KVEntryCreateBulk instead", i)
		}
	}
	if len(u.create.conflict) == 0 {
		return errors.New("ent: missing options for KVEntryCreateBulk.OnConflict")
	}
	return u.create.Exec(ctx)
}

// ExecX is like Exec, but panics if an error occurs.
func (u *KVEntryUpsertBulk) ExecX(ctx context.Context) {
	if err := u.create.Exec(ctx); err != nil {
		panic(err)
	}
}
