// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/agentexec/agentexec/ent/queueitem"
)

// QueueItemCreate is the builder for creating a QueueItem entity.
type QueueItemCreate struct {
	config
	mutation *QueueItemMutation
	hooks    []Hook
	conflict []sql.ConflictOption
}

// SetQueue sets the "queue" field.
func (_c *QueueItemCreate) SetQueue(v string) *QueueItemCreate {
	_c.mutation.SetQueue(v)
	return _c
}

// SetPriority sets the "priority" field.
func (_c *QueueItemCreate) SetPriority(v int) *QueueItemCreate {
	_c.mutation.SetPriority(v)
	return _c
}

// SetPayload sets the "payload" field.
func (_c *QueueItemCreate) SetPayload(v []byte) *QueueItemCreate {
	_c.mutation.SetPayload(v)
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *QueueItemCreate) SetCreatedAt(v time.Time) *QueueItemCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *QueueItemCreate) SetNillableCreatedAt(v *time.Time) *QueueItemCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// Mutation returns the QueueItemMutation object of the builder.
func (_c *QueueItemCreate) Mutation() *QueueItemMutation {
	return _c.mutation
}

// Save creates the QueueItem in the database.
func (_c *QueueItemCreate) Save(ctx context.Context) (*QueueItem, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *QueueItemCreate) SaveX(ctx context.Context) *QueueItem {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *QueueItemCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *QueueItemCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *QueueItemCreate) defaults() {
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := queueitem.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *QueueItemCreate) check() error {
	if _, ok := _c.mutation.Queue(); !ok {
		return &ValidationError{Name: "queue", err: errors.New(`ent: missing required field "QueueItem.queue"`)}
	}
	if _, ok := _c.mutation.Priority(); !ok {
		return &ValidationError{Name: "priority", err: errors.New(`ent: missing required field "QueueItem.priority"`)}
	}
	if _, ok := _c.mutation.Payload(); !ok {
		return &ValidationError{Name: "payload", err: errors.New(`ent: missing required field "QueueItem.payload"`)}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "QueueItem.created_at"`)}
	}
	return nil
}

func (_c *QueueItemCreate) sqlSave(ctx context.Context) (*QueueItem, error) {
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
	id := _spec.ID.Value.(int64)
	_node.ID = int(id)
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *QueueItemCreate) createSpec() (*QueueItem, *sqlgraph.CreateSpec) {
	var (
		_node = &QueueItem{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(queueitem.Table, sqlgraph.NewFieldSpec(queueitem.FieldID, field.TypeInt))
	)
	_spec.OnConflict = _c.conflict
	if value, ok := _c.mutation.Queue(); ok {
		_spec.SetField(queueitem.FieldQueue, field.TypeString, value)
		_node.Queue = value
	}
	if value, ok := _c.mutation.Priority(); ok {
		_spec.SetField(queueitem.FieldPriority, field.TypeInt, value)
		_node.Priority = value
	}
	if value, ok := _c.mutation.Payload(); ok {
		_spec.SetField(queueitem.FieldPayload, field.TypeBytes, value)
		_node.Payload = value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(queueitem.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	return _node, _spec
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement. For example:
//
//	client.QueueItem.Create().
//		SetQueue(v).
//		OnConflict(
//			// Update the row with the new values
//			// the was proposed for insertion.
//			sql.ResolveWithNewValues(),
//		).
//		// Override some of the fields with custom
//		// update values.
//		Update(func(u *ent.QueueItemUpsert) {
//			SetQueue(v+v).
//		}).
//		Exec(ctx)
func (_c *QueueItemCreate) OnConflict(opts ...sql.ConflictOption) *QueueItemUpsertOne {
	_c.conflict = opts
	return &QueueItemUpsertOne{
		create: _c,
	}
}

// OnConflictColumns calls `OnConflict` and configures the columns
// as conflict target. Using this option is equivalent to using:
//
//	client.QueueItem.Create().
//		OnConflict(sql.ConflictColumns(columns...)).
//		Exec(ctx)
func (_c *QueueItemCreate) OnConflictColumns(columns ...string) *QueueItemUpsertOne {
	_c.conflict = append(_c.conflict, sql.ConflictColumns(columns...))
	return &QueueItemUpsertOne{
		create: _c,
	}
}

type (
	// QueueItemUpsertOne is the builder for "upsert"-ing
	//  one QueueItem node.
	QueueItemUpsertOne struct {
		create *QueueItemCreate
	}

	// QueueItemUpsert is the "OnConflict" setter.
	QueueItemUpsert struct {
		*sql.UpdateSet
	}
)

// SetQueue sets the "queue" field.
func (u *QueueItemUpsert) SetQueue(v string) *QueueItemUpsert {
	u.Set(queueitem.FieldQueue, v)
	return u
}

// UpdateQueue sets the "queue" field to the value that was provided on create.
func (u *QueueItemUpsert) UpdateQueue() *QueueItemUpsert {
	u.SetExcluded(queueitem.FieldQueue)
	return u
}

// SetPriority sets the "priority" field.
func (u *QueueItemUpsert) SetPriority(v int) *QueueItemUpsert {
	u.Set(queueitem.FieldPriority, v)
	return u
}

// UpdatePriority sets the "priority" field to the value that was provided on create.
func (u *QueueItemUpsert) UpdatePriority() *QueueItemUpsert {
	u.SetExcluded(queueitem.FieldPriority)
	return u
}

// AddPriority adds v to the "priority" field.
func (u *QueueItemUpsert) AddPriority(v int) *QueueItemUpsert {
	u.Add(queueitem.FieldPriority, v)
	return u
}

// SetPayload sets the "payload" field.
func (u *QueueItemUpsert) SetPayload(v []byte) *QueueItemUpsert {
	u.Set(queueitem.FieldPayload, v)
	return u
}

// UpdatePayload sets the "payload" field to the value that was provided on create.
func (u *QueueItemUpsert) UpdatePayload() *QueueItemUpsert {
	u.SetExcluded(queueitem.FieldPayload)
	return u
}

// UpdateNewValues updates the mutable fields using the new values that were set on create.
// Using this option is equivalent to using:
//
//	client.QueueItem.Create().
//		OnConflict(
//			sql.ResolveWithNewValues(),
//		).
//		Exec(ctx)
func (u *QueueItemUpsertOne) UpdateNewValues() *QueueItemUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithNewValues())
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(s *sql.UpdateSet) {
		if _, exists := u.create.mutation.CreatedAt(); exists {
			s.SetIgnore(queueitem.FieldCreatedAt)
		}
	}))
	return u
}

// Ignore sets each column to itself in case of conflict.
// Using this option is equivalent to using:
//
//	client.QueueItem.Create().
//	    OnConflict(sql.ResolveWithIgnore()).
//	    Exec(ctx)
func (u *QueueItemUpsertOne) Ignore() *QueueItemUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithIgnore())
	return u
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported only by SQLite and PostgreSQL.
func (u *QueueItemUpsertOne) DoNothing() *QueueItemUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.DoNothing())
	return u
}

// Update allows overriding fields `UPDATE` values. See the QueueItemCreate.OnConflict
// documentation for more info.
func (u *QueueItemUpsertOne) Update(set func(*QueueItemUpsert)) *QueueItemUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(update *sql.UpdateSet) {
		set(&QueueItemUpsert{UpdateSet: update})
	}))
	return u
}

// SetQueue sets the "queue" field.
func (u *QueueItemUpsertOne) SetQueue(v string) *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.SetQueue(v)
	})
}

// UpdateQueue sets the "queue" field to the value that was provided on create.
func (u *QueueItemUpsertOne) UpdateQueue() *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.UpdateQueue()
	})
}

// SetPriority sets the "priority" field.
func (u *QueueItemUpsertOne) SetPriority(v int) *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.SetPriority(v)
	})
}

// AddPriority adds v to the "priority" field.
func (u *QueueItemUpsertOne) AddPriority(v int) *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.AddPriority(v)
	})
}

// UpdatePriority sets the "priority" field to the value that was provided on create.
func (u *QueueItemUpsertOne) UpdatePriority() *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.UpdatePriority()
	})
}

// SetPayload sets the "payload" field.
func (u *QueueItemUpsertOne) SetPayload(v []byte) *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.SetPayload(v)
	})
}

// UpdatePayload sets the "payload" field to the value that was provided on create.
func (u *QueueItemUpsertOne) UpdatePayload() *QueueItemUpsertOne {
	return u.Update(func(s *QueueItemUpsert) {
		s.UpdatePayload()
	})
}

// Exec executes the query.
func (u *QueueItemUpsertOne) Exec(ctx context.Context) error {
	if len(u.create.conflict) == 0 {
		return errors.New("ent: missing options for QueueItemCreate.OnConflict")
	}
	return u.create.Exec(ctx)
}

// ExecX is like Exec, but panics if an error occurs.
func (u *QueueItemUpsertOne) ExecX(ctx context.Context) {
	if err := u.create.Exec(ctx); err != nil {
		panic(err)
	}
}

// Exec executes the UPSERT query and returns the inserted/updated ID.
func (u *QueueItemUpsertOne) ID(ctx context.Context) (id int, err error) {
	node, err := u.create.Save(ctx)
	if err != nil {
		return id, err
	}
	return node.ID, nil
}

// IDX is like ID, but panics if an error occurs.
func (u *QueueItemUpsertOne) IDX(ctx context.Context) int {
	id, err := u.ID(ctx)
	if err != nil {
		panic(err)
	}
	return id
}

// QueueItemCreateBulk is the builder for creating many QueueItem entities in bulk.
type QueueItemCreateBulk struct {
	config
	err      error
	builders []*QueueItemCreate
	conflict []sql.ConflictOption
}

// Save creates the QueueItem entities in the database.
func (_c *QueueItemCreateBulk) Save(ctx context.Context) ([]*QueueItem, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*QueueItem, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*QueueItemMutation)
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
				if specs[i].ID.Value != nil {
					id := specs[i].ID.Value.(int64)
					nodes[i].ID = int(id)
				}
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
func (_c *QueueItemCreateBulk) SaveX(ctx context.Context) []*QueueItem {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *QueueItemCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *QueueItemCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement. For example:
//
//	client.QueueItem.CreateBulk(builders...).
//		OnConflict(
//			// Update the row with the new values
//			// the was proposed for insertion.
//			sql.ResolveWithNewValues(),
//		).
//		// Override some of the fields with custom
//		// update values.
//		Update(func(u *ent.QueueItemUpsert) {
//			SetQueue(v+v).
//		}).
//		Exec(ctx)
func (_c *QueueItemCreateBulk) OnConflict(opts ...sql.ConflictOption) *QueueItemUpsertBulk {
	_c.conflict = opts
	return &QueueItemUpsertBulk{
		create: _c,
	}
}

// OnConflictColumns calls `OnConflict` and configures the columns
// as conflict target. Using this option is equivalent to using:
//
//	client.QueueItem.Create().
//		OnConflict(sql.ConflictColumns(columns...)).
//		Exec(ctx)
func (_c *QueueItemCreateBulk) OnConflictColumns(columns ...string) *QueueItemUpsertBulk {
	_c.conflict = append(_c.conflict, sql.ConflictColumns(columns...))
	return &QueueItemUpsertBulk{
		create: _c,
	}
}

// QueueItemUpsertBulk is the builder for "upsert"-ing
// a bulk of QueueItem nodes.
type QueueItemUpsertBulk struct {
	create *QueueItemCreateBulk
}

// UpdateNewValues updates the mutable fields using the new values that
// were set on create. Using this option is equivalent to using:
//
//	client.QueueItem.Create().
//		OnConflict(
//			sql.ResolveWithNewValues(),
//		).
//		Exec(ctx)
func (u *QueueItemUpsertBulk) UpdateNewValues() *QueueItemUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithNewValues())
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(s *sql.UpdateSet) {
		for _, b := range u.create.builders {
			if _, exists := b.mutation.CreatedAt(); exists {
				s.SetIgnore(queueitem.FieldCreatedAt)
			}
		}
	}))
	return u
}

// Ignore sets each column to itself in case of conflict.
// Using this option is equivalent to using:
//
//	client.QueueItem.Create().
//		OnConflict(sql.ResolveWithIgnore()).
//		Exec(ctx)
func (u *QueueItemUpsertBulk) Ignore() *QueueItemUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithIgnore())
	return u
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported only by SQLite and PostgreSQL.
func (u *QueueItemUpsertBulk) DoNothing() *QueueItemUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.DoNothing())
	return u
}

// Update allows overriding fields `UPDATE` values. See the QueueItemCreateBulk.OnConflict
// documentation for more info.
func (u *QueueItemUpsertBulk) Update(set func(*QueueItemUpsert)) *QueueItemUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(update *sql.UpdateSet) {
		set(&QueueItemUpsert{UpdateSet: update})
	}))
	return u
}

// SetQueue sets the "queue" field.
func (u *QueueItemUpsertBulk) SetQueue(v string) *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.SetQueue(v)
	})
}

// UpdateQueue sets the "queue" field to the value that was provided on create.
func (u *QueueItemUpsertBulk) UpdateQueue() *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.UpdateQueue()
	})
}

// SetPriority sets the "priority" field.
func (u *QueueItemUpsertBulk) SetPriority(v int) *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.SetPriority(v)
	})
}

// AddPriority adds v to the "priority" field.
func (u *QueueItemUpsertBulk) AddPriority(v int) *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.AddPriority(v)
	})
}

// UpdatePriority sets the "priority" field to the value that was provided on create.
func (u *QueueItemUpsertBulk) UpdatePriority() *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.UpdatePriority()
	})
}

// SetPayload sets the "payload" field.
func (u *QueueItemUpsertBulk) SetPayload(v []byte) *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.SetPayload(v)
	})
}

// UpdatePayload sets the "payload" field to the value that was provided on create.
func (u *QueueItemUpsertBulk) UpdatePayload() *QueueItemUpsertBulk {
	return u.Update(func(s *QueueItemUpsert) {
		s.UpdatePayload()
	})
}

// Exec executes the query.
func (u *QueueItemUpsertBulk) Exec(ctx context.Context) error {
	if u.create.err != nil {
		return u.create.err
	}
	for i, b := range u.create.builders {
		if len(b.conflict) != 0 {
			return fmt.Errorf("ent: OnConflict was set for builder %d. Set it on the QueueItemCreateBulk instead", i)
		}
	}
	if len(u.create.conflict) == 0 {
		return errors.New("ent: missing options for QueueItemCreateBulk.OnConflict")
	}
	return u.create.Exec(ctx)
}

// ExecX is like Exec, but panics if an error occurs.
func (u *QueueItemUpsertBulk) ExecX(ctx context.Context) {
	if err := u.create.Exec(ctx); err != nil {
		panic(err)
	}
}
