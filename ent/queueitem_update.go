// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/agentexec/agentexec/ent/predicate"
	"github.com/agentexec/agentexec/ent/queueitem"
)

// QueueItemUpdate is the builder for updating QueueItem entities.
type QueueItemUpdate struct {
	config
	hooks     []Hook
	mutation  *QueueItemMutation
	modifiers []func(*sql.UpdateBuilder)
}

// Where appends a list predicates to the QueueItemUpdate builder.
func (_u *QueueItemUpdate) Where(ps ...predicate.QueueItem) *QueueItemUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetQueue sets the "queue" field.
func (_u *QueueItemUpdate) SetQueue(v string) *QueueItemUpdate {
	_u.mutation.SetQueue(v)
	return _u
}

// SetNillableQueue sets the "queue" field if the given value is not nil.
func (_u *QueueItemUpdate) SetNillableQueue(v *string) *QueueItemUpdate {
	if v != nil {
		_u.SetQueue(*v)
	}
	return _u
}

// SetPriority sets the "priority" field.
func (_u *QueueItemUpdate) SetPriority(v int) *QueueItemUpdate {
	_u.mutation.ResetPriority()
	_u.mutation.SetPriority(v)
	return _u
}

// SetNillablePriority sets the "priority" field if the given value is not nil.
func (_u *QueueItemUpdate) SetNillablePriority(v *int) *QueueItemUpdate {
	if v != nil {
		_u.SetPriority(*v)
	}
	return _u
}

// AddPriority adds value to the "priority" field.
func (_u *QueueItemUpdate) AddPriority(v int) *QueueItemUpdate {
	_u.mutation.AddPriority(v)
	return _u
}

// SetPayload sets the "payload" field.
func (_u *QueueItemUpdate) SetPayload(v []byte) *QueueItemUpdate {
	_u.mutation.SetPayload(v)
	return _u
}

// Mutation returns the QueueItemMutation object of the builder.
func (_u *QueueItemUpdate) Mutation() *QueueItemMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *QueueItemUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *QueueItemUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *QueueItemUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *QueueItemUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// Modify adds a statement modifier for attaching custom logic to the UPDATE statement.
func (_u *QueueItemUpdate) Modify(modifiers ...func(u *sql.UpdateBuilder)) *QueueItemUpdate {
	_u.modifiers = append(_u.modifiers, modifiers...)
	return _u
}

func (_u *QueueItemUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	_spec := sqlgraph.NewUpdateSpec(queueitem.Table, queueitem.Columns, sqlgraph.NewFieldSpec(queueitem.FieldID, field.TypeInt))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Queue(); ok {
		_spec.SetField(queueitem.FieldQueue, field.TypeString, value)
	}
	if value, ok := _u.mutation.Priority(); ok {
		_spec.SetField(queueitem.FieldPriority, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedPriority(); ok {
		_spec.AddField(queueitem.FieldPriority, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Payload(); ok {
		_spec.SetField(queueitem.FieldPayload, field.TypeBytes, value)
	}
	_spec.AddModifiers(_u.modifiers...)
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{queueitem.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// QueueItemUpdateOne is the builder for updating a single QueueItem entity.
type QueueItemUpdateOne struct {
	config
	fields    []string
	hooks     []Hook
	mutation  *QueueItemMutation
	modifiers []func(*sql.UpdateBuilder)
}

// SetQueue sets the "queue" field.
func (_u *QueueItemUpdateOne) SetQueue(v string) *QueueItemUpdateOne {
	_u.mutation.SetQueue(v)
	return _u
}

// SetNillableQueue sets the "queue" field if the given value is not nil.
func (_u *QueueItemUpdateOne) SetNillableQueue(v *string) *QueueItemUpdateOne {
	if v != nil {
		_u.SetQueue(*v)
	}
	return _u
}

// SetPriority sets the "priority" field.
func (_u *QueueItemUpdateOne) SetPriority(v int) *QueueItemUpdateOne {
	_u.mutation.ResetPriority()
	_u.mutation.SetPriority(v)
	return _u
}

// SetNillablePriority sets the "priority" field if the given value is not nil.
func (_u *QueueItemUpdateOne) SetNillablePriority(v *int) *QueueItemUpdateOne {
	if v != nil {
		_u.SetPriority(*v)
	}
	return _u
}

// AddPriority adds value to the "priority" field.
func (_u *QueueItemUpdateOne) AddPriority(v int) *QueueItemUpdateOne {
	_u.mutation.AddPriority(v)
	return _u
}

// SetPayload sets the "payload" field.
func (_u *QueueItemUpdateOne) SetPayload(v []byte) *QueueItemUpdateOne {
	_u.mutation.SetPayload(v)
	return _u
}

// Mutation returns the QueueItemMutation object of the builder.
func (_u *QueueItemUpdateOne) Mutation() *QueueItemMutation {
	return _u.mutation
}

// Where appends a list predicates to the QueueItemUpdate builder.
func (_u *QueueItemUpdateOne) Where(ps ...predicate.QueueItem) *QueueItemUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *QueueItemUpdateOne) Select(field string, fields ...string) *QueueItemUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated QueueItem entity.
func (_u *QueueItemUpdateOne) Save(ctx context.Context) (*QueueItem, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *QueueItemUpdateOne) SaveX(ctx context.Context) *QueueItem {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *QueueItemUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *QueueItemUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// Modify adds a statement modifier for attaching custom logic to the UPDATE statement.
func (_u *QueueItemUpdateOne) Modify(modifiers ...func(u *sql.UpdateBuilder)) *QueueItemUpdateOne {
	_u.modifiers = append(_u.modifiers, modifiers...)
	return _u
}

func (_u *QueueItemUpdateOne) sqlSave(ctx context.Context) (_node *QueueItem, err error) {
	_spec := sqlgraph.NewUpdateSpec(queueitem.Table, queueitem.Columns, sqlgraph.NewFieldSpec(queueitem.FieldID, field.TypeInt))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "QueueItem.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, queueitem.FieldID)
		for _, f := range fields {
			if !queueitem.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != queueitem.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Queue(); ok {
		_spec.SetField(queueitem.FieldQueue, field.TypeString, value)
	}
	if value, ok := _u.mutation.Priority(); ok {
		_spec.SetField(queueitem.FieldPriority, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedPriority(); ok {
		_spec.AddField(queueitem.FieldPriority, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Payload(); ok {
		_spec.SetField(queueitem.FieldPayload, field.TypeBytes, value)
	}
	_spec.AddModifiers(_u.modifiers...)
	_node = &QueueItem{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{queueitem.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
