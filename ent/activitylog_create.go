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
	"github.com/agentexec/agentexec/ent/activity"
	"github.com/agentexec/agentexec/ent/activitylog"
	"github.com/google/uuid"
)

// ActivityLogCreate is the builder for creating a ActivityLog entity.
type ActivityLogCreate struct {
	config
	mutation *ActivityLogMutation
	hooks    []Hook
	conflict []sql.ConflictOption
}

// SetActivityID sets the "activity_id" field.
func (_c *ActivityLogCreate) SetActivityID(v uuid.UUID) *ActivityLogCreate {
	_c.mutation.SetActivityID(v)
	return _c
}

// SetMessage sets the "message" field.
func (_c *ActivityLogCreate) SetMessage(v string) *ActivityLogCreate {
	_c.mutation.SetMessage(v)
	return _c
}

// SetStatus sets the "status" field.
func (_c *ActivityLogCreate) SetStatus(v activitylog.Status) *ActivityLogCreate {
	_c.mutation.SetStatus(v)
	return _c
}

// SetPercentage sets the "percentage" field.
func (_c *ActivityLogCreate) SetPercentage(v int) *ActivityLogCreate {
	_c.mutation.SetPercentage(v)
	return _c
}

// SetNillablePercentage sets the "percentage" field if the given value is not nil.
func (_c *ActivityLogCreate) SetNillablePercentage(v *int) *ActivityLogCreate {
	if v != nil {
		_c.SetPercentage(*v)
	}
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *ActivityLogCreate) SetCreatedAt(v time.Time) *ActivityLogCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *ActivityLogCreate) SetNillableCreatedAt(v *time.Time) *ActivityLogCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetActivity sets the "activity" edge to the Activity entity.
func (_c *ActivityLogCreate) SetActivity(v *Activity) *ActivityLogCreate {
	return _c.SetActivityID(v.ID)
}

// Mutation returns the ActivityLogMutation object of the builder.
func (_c *ActivityLogCreate) Mutation() *ActivityLogMutation {
	return _c.mutation
}

// Save creates the ActivityLog in the database.
func (_c *ActivityLogCreate) Save(ctx context.Context) (*ActivityLog, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *ActivityLogCreate) SaveX(ctx context.Context) *ActivityLog {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *ActivityLogCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *ActivityLogCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *ActivityLogCreate) defaults() {
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := activitylog.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *ActivityLogCreate) check() error {
	if _, ok := _c.mutation.ActivityID(); !ok {
		return &ValidationError{Name: "activity_id", err: errors.New(`ent: missing required field "ActivityLog.activity_id"`)}
	}
	if _, ok := _c.mutation.Message(); !ok {
		return &ValidationError{Name: "message", err: errors.New(`ent: missing required field "ActivityLog.message"`)}
	}
	if _, ok := _c.mutation.Status(); !ok {
		return &ValidationError{Name: "status", err: errors.New(`ent: missing required field "ActivityLog.status"`)}
	}
	if v, ok := _c.mutation.Status(); ok {
		if err := activitylog.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "ActivityLog.status": %w`, err)}
		}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "ActivityLog.created_at"`)}
	}
	if len(_c.mutation.ActivityIDs()) == 0 {
		return &ValidationError{Name: "activity", err: errors.New(`ent: missing required edge "ActivityLog.activity"`)}
	}
	return nil
}

func (_c *ActivityLogCreate) sqlSave(ctx context.Context) (*ActivityLog, error) {
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

func (_c *ActivityLogCreate) createSpec() (*ActivityLog, *sqlgraph.CreateSpec) {
	var (
		_node = &ActivityLog{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(activitylog.Table, sqlgraph.NewFieldSpec(activitylog.FieldID, field.TypeInt))
	)
	_spec.OnConflict = _c.conflict
	if value, ok := _c.mutation.Message(); ok {
		_spec.SetField(activitylog.FieldMessage, field.TypeString, value)
		_node.Message = value
	}
	if value, ok := _c.mutation.Status(); ok {
		_spec.SetField(activitylog.FieldStatus, field.TypeEnum, value)
		_node.Status = value
	}
	if value, ok := _c.mutation.Percentage(); ok {
		_spec.SetField(activitylog.FieldPercentage, field.TypeInt, value)
		_node.Percentage = &value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(activitylog.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if nodes := _c.mutation.ActivityIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   activitylog.ActivityTable,
			Columns: []string{activitylog.ActivityColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(activity.FieldID, field.TypeUUID),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_node.ActivityID = nodes[0]
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement. For example:
//
//	client.ActivityLog.Create().
//		SetActivityID(v).
//		OnConflict(
//			// Update the row with the new values
//			// the was proposed for insertion.
//			sql.ResolveWithNewValues(),
//		).
//		// Override some of the fields with custom
//		// update values.
//		Update(func(u *ent.ActivityLogUpsert) {
//			SetActivityID(v+v).
//		}).
//		Exec(ctx)
func (_c *ActivityLogCreate) OnConflict(opts ...sql.ConflictOption) *ActivityLogUpsertOne {
	_c.conflict = opts
	return &ActivityLogUpsertOne{
		create: _c,
	}
}

// OnConflictColumns calls `OnConflict` and configures the columns
// as conflict target. Using this option is equivalent to using:
//
//	client.ActivityLog.Create().
//		OnConflict(sql.ConflictColumns(columns...)).
//		Exec(ctx)
func (_c *ActivityLogCreate) OnConflictColumns(columns ...string) *ActivityLogUpsertOne {
	_c.conflict = append(_c.conflict, sql.ConflictColumns(columns...))
	return &ActivityLogUpsertOne{
		create: _c,
	}
}

type (
	// ActivityLogUpsertOne is the builder for "upsert"-ing
	//  one ActivityLog node.
	ActivityLogUpsertOne struct {
		create *ActivityLogCreate
	}

	// ActivityLogUpsert is the "OnConflict" setter.
	ActivityLogUpsert struct {
		*sql.UpdateSet
	}
)

// SetMessage sets the "message" field.
func (u *ActivityLogUpsert) SetMessage(v string) *ActivityLogUpsert {
	u.Set(activitylog.FieldMessage, v)
	return u
}

// UpdateMessage sets the "message" field to the value that was provided on create.
func (u *ActivityLogUpsert) UpdateMessage() *ActivityLogUpsert {
	u.SetExcluded(activitylog.FieldMessage)
	return u
}

// SetStatus sets the "status" field.
func (u *ActivityLogUpsert) SetStatus(v activitylog.Status) *ActivityLogUpsert {
	u.Set(activitylog.FieldStatus, v)
	return u
}

// UpdateStatus sets the "status" field to the value that was provided on create.
func (u *ActivityLogUpsert) UpdateStatus() *ActivityLogUpsert {
	u.SetExcluded(activitylog.FieldStatus)
	return u
}

// SetPercentage sets the "percentage" field.
func (u *ActivityLogUpsert) SetPercentage(v int) *ActivityLogUpsert {
	u.Set(activitylog.FieldPercentage, v)
	return u
}

// UpdatePercentage sets the "percentage" field to the value that was provided on create.
func (u *ActivityLogUpsert) UpdatePercentage() *ActivityLogUpsert {
	u.SetExcluded(activitylog.FieldPercentage)
	return u
}

// AddPercentage adds v to the "percentage" field.
func (u *ActivityLogUpsert) AddPercentage(v int) *ActivityLogUpsert {
	u.Add(activitylog.FieldPercentage, v)
	return u
}

// ClearPercentage clears the value of the "percentage" field.
func (u *ActivityLogUpsert) ClearPercentage() *ActivityLogUpsert {
	u.SetNull(activitylog.FieldPercentage)
	return u
}

// UpdateNewValues updates the mutable fields using the new values that were set on create.
// Using this option is equivalent to using:
//
//	client.ActivityLog.Create().
//		OnConflict(
//			sql.ResolveWithNewValues(),
//		).
//		Exec(ctx)
func (u *ActivityLogUpsertOne) UpdateNewValues() *ActivityLogUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithNewValues())
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(s *sql.UpdateSet) {
		if _, exists := u.create.mutation.ActivityID(); exists {
			s.SetIgnore(activitylog.FieldActivityID)
		}
		if _, exists := u.create.mutation.CreatedAt(); exists {
			s.SetIgnore(activitylog.FieldCreatedAt)
		}
	}))
	return u
}

// Ignore sets each column to itself in case of conflict.
// Using this option is equivalent to using:
//
//	client.ActivityLog.Create().
//	    OnConflict(sql.ResolveWithIgnore()).
//	    Exec(ctx)
func (u *ActivityLogUpsertOne) Ignore() *ActivityLogUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithIgnore())
	return u
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported only by SQLite and PostgreSQL.
func (u *ActivityLogUpsertOne) DoNothing() *ActivityLogUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.DoNothing())
	return u
}

// Update allows overriding fields `UPDATE` values. See the ActivityLogCreate.OnConflict
// documentation for more info.
func (u *ActivityLogUpsertOne) Update(set func(*ActivityLogUpsert)) *ActivityLogUpsertOne {
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(update *sql.UpdateSet) {
		set(&ActivityLogUpsert{UpdateSet: update})
	}))
	return u
}

// SetMessage sets the "message" field.
func (u *ActivityLogUpsertOne) SetMessage(v string) *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.SetMessage(v)
	})
}

// UpdateMessage sets the "message" field to the value that was provided on create.
func (u *ActivityLogUpsertOne) UpdateMessage() *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.UpdateMessage()
	})
}

// SetStatus sets the "status" field.
func (u *ActivityLogUpsertOne) SetStatus(v activitylog.Status) *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.SetStatus(v)
	})
}

// UpdateStatus sets the "status" field to the value that was provided on create.
func (u *ActivityLogUpsertOne) UpdateStatus() *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.UpdateStatus()
	})
}

// SetPercentage sets the "percentage" field.
func (u *ActivityLogUpsertOne) SetPercentage(v int) *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.SetPercentage(v)
	})
}

// AddPercentage adds v to the "percentage" field.
func (u *ActivityLogUpsertOne) AddPercentage(v int) *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.AddPercentage(v)
	})
}

// UpdatePercentage sets the "percentage" field to the value that was provided on create.
func (u *ActivityLogUpsertOne) UpdatePercentage() *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.UpdatePercentage()
	})
}

// ClearPercentage clears the value of the "percentage" field.
func (u *ActivityLogUpsertOne) ClearPercentage() *ActivityLogUpsertOne {
	return u.Update(func(s *ActivityLogUpsert) {
		s.ClearPercentage()
	})
}

// Exec executes the query.
func (u *ActivityLogUpsertOne) Exec(ctx context.Context) error {
	if len(u.create.conflict) == 0 {
		return errors.New("ent: missing options for ActivityLogCreate.OnConflict")
	}
	return u.create.Exec(ctx)
}

// ExecX is like Exec, but panics if an error occurs.
func (u *ActivityLogUpsertOne) ExecX(ctx context.Context) {
	if err := u.create.Exec(ctx); err != nil {
		panic(err)
	}
}

// Exec executes the UPSERT query and returns the inserted/updated ID.
func (u *ActivityLogUpsertOne) ID(ctx context.Context) (id int, err error) {
	node, err := u.create.Save(ctx)
	if err != nil {
		return id, err
	}
	return node.ID, nil
}

// IDX is like ID, but panics if an error occurs.
func (u *ActivityLogUpsertOne) IDX(ctx context.Context) int {
	id, err := u.ID(ctx)
	if err != nil {
		panic(err)
	}
	return id
}

// ActivityLogCreateBulk is the builder for creating many ActivityLog entities in bulk.
type ActivityLogCreateBulk struct {
	config
	err      error
	builders []*ActivityLogCreate
	conflict []sql.ConflictOption
}

// Save creates the ActivityLog entities in the database.
func (_c *ActivityLogCreateBulk) Save(ctx context.Context) ([]*ActivityLog, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*ActivityLog, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*ActivityLogMutation)
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
func (_c *ActivityLogCreateBulk) SaveX(ctx context.Context) []*ActivityLog {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *ActivityLogCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *ActivityLogCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// OnConflict allows configuring the `ON CONFLICT` / `ON DUPLICATE KEY` clause
// of the `INSERT` statement. For example:
//
//	client.ActivityLog.CreateBulk(builders...).
//		OnConflict(
//			// Update the row with the new values
//			// the was proposed for insertion.
//			sql.ResolveWithNewValues(),
//		).
//		// Override some of the fields with custom
//		// update values.
//		Update(func(u *ent.ActivityLogUpsert) {
//			SetActivityID(v+v).
//		}).
//		Exec(ctx)
func (_c *ActivityLogCreateBulk) OnConflict(opts ...sql.ConflictOption) *ActivityLogUpsertBulk {
	_c.conflict = opts
	return &ActivityLogUpsertBulk{
		create: _c,
	}
}

// OnConflictColumns calls `OnConflict` and configures the columns
// as conflict target. Using this option is equivalent to using:
//
//	client.ActivityLog.Create().
//		OnConflict(sql.ConflictColumns(columns...)).
//		Exec(ctx)
func (_c *ActivityLogCreateBulk) OnConflictColumns(columns ...string) *ActivityLogUpsertBulk {
	_c.conflict = append(_c.conflict, sql.ConflictColumns(columns...))
	return &ActivityLogUpsertBulk{
		create: _c,
	}
}

// ActivityLogUpsertBulk is the builder for "upsert"-ing
// a bulk of ActivityLog nodes.
type ActivityLogUpsertBulk struct {
	create *ActivityLogCreateBulk
}

// UpdateNewValues updates the mutable fields using the new values that
// were set on create. Using this option is equivalent to using:
//
//	client.ActivityLog.Create().
//		OnConflict(
//			sql.ResolveWithNewValues(),
//		).
//		Exec(ctx)
func (u *ActivityLogUpsertBulk) UpdateNewValues() *ActivityLogUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithNewValues())
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(s *sql.UpdateSet) {
		for _, b := range u.create.builders {
			if _, exists := b.mutation.ActivityID(); exists {
				s.SetIgnore(activitylog.FieldActivityID)
			}
			if _, exists := b.mutation.CreatedAt(); exists {
				s.SetIgnore(activitylog.FieldCreatedAt)
			}
		}
	}))
	return u
}

// Ignore sets each column to itself in case of conflict.
// Using this option is equivalent to using:
//
//	client.ActivityLog.Create().
//		OnConflict(sql.ResolveWithIgnore()).
//		Exec(ctx)
func (u *ActivityLogUpsertBulk) Ignore() *ActivityLogUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWithIgnore())
	return u
}

// DoNothing configures the conflict_action to `DO NOTHING`.
// Supported only by SQLite and PostgreSQL.
func (u *ActivityLogUpsertBulk) DoNothing() *ActivityLogUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.DoNothing())
	return u
}

// Update allows overriding fields `UPDATE` values. See the ActivityLogCreateBulk.OnConflict
// documentation for more info.
func (u *ActivityLogUpsertBulk) Update(set func(*ActivityLogUpsert)) *ActivityLogUpsertBulk {
	u.create.conflict = append(u.create.conflict, sql.ResolveWith(func(update *sql.UpdateSet) {
		set(&ActivityLogUpsert{UpdateSet: update})
	}))
	return u
}

// SetMessage sets the "message" field.
func (u *ActivityLogUpsertBulk) SetMessage(v string) *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.SetMessage(v)
	})
}

// UpdateMessage sets the "message" field to the value that was provided on create.
func (u *ActivityLogUpsertBulk) UpdateMessage() *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.UpdateMessage()
	})
}

// SetStatus sets the "status" field.
func (u *ActivityLogUpsertBulk) SetStatus(v activitylog.Status) *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.SetStatus(v)
	})
}

// UpdateStatus sets the "status" field to the value that was provided on create.
func (u *ActivityLogUpsertBulk) UpdateStatus() *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.UpdateStatus()
	})
}

// SetPercentage sets the "percentage" field.
func (u *ActivityLogUpsertBulk) SetPercentage(v int) *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.SetPercentage(v)
	})
}

// AddPercentage adds v to the "percentage" field.
func (u *ActivityLogUpsertBulk) AddPercentage(v int) *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.AddPercentage(v)
	})
}

// UpdatePercentage sets the "percentage" field to the value that was provided on create.
func (u *ActivityLogUpsertBulk) UpdatePercentage() *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.UpdatePercentage()
	})
}

// ClearPercentage clears the value of the "percentage" field.
func (u *ActivityLogUpsertBulk) ClearPercentage() *ActivityLogUpsertBulk {
	return u.Update(func(s *ActivityLogUpsert) {
		s.ClearPercentage()
	})
}

// Exec executes the query.
func (u *ActivityLogUpsertBulk) Exec(ctx context.Context) error {
	if u.create.err != nil {
		return u.create.err
	}
	for i, b := range u.create.builders {
		if len(b.conflict) != 0 {
			return fmt.Errorf("ent: OnConflict was set for builder %d. Set it on the ActivityLogCreateBulk instead", i)
		}
	}
	if len(u.create.conflict) == 0 {
		return errors.New("ent: missing options for ActivityLogCreateBulk.OnConflict")
	}
	return u.create.Exec(ctx)
}

// ExecX is like Exec, but panics if an error occurs.
func (u *ActivityLogUpsertBulk) ExecX(ctx context.Context) {
	if err := u.create.Exec(ctx); err != nil {
		panic(err)
	}
}
