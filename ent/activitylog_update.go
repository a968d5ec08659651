// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/agentexec/agentexec/ent/activitylog"
	"github.com/agentexec/agentexec/ent/predicate"
)

// ActivityLogUpdate is the builder for updating ActivityLog entities.
type ActivityLogUpdate struct {
	config
	hooks     []Hook
	mutation  *ActivityLogMutation
	modifiers []func(*sql.UpdateBuilder)
}

// Where appends a list predicates to the ActivityLogUpdate builder.
func (_u *ActivityLogUpdate) Where(ps ...predicate.ActivityLog) *ActivityLogUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetMessage sets the "message" field.
func (_u *ActivityLogUpdate) SetMessage(v string) *ActivityLogUpdate {
	_u.mutation.SetMessage(v)
	return _u
}

// SetNillableMessage sets the "message" field if the given value is not nil.
func (_u *ActivityLogUpdate) SetNillableMessage(v *string) *ActivityLogUpdate {
	if v != nil {
		_u.SetMessage(*v)
	}
	return _u
}

// SetStatus sets the "status" field.
func (_u *ActivityLogUpdate) SetStatus(v activitylog.Status) *ActivityLogUpdate {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *ActivityLogUpdate) SetNillableStatus(v *activitylog.Status) *ActivityLogUpdate {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetPercentage sets the "percentage" field.
func (_u *ActivityLogUpdate) SetPercentage(v int) *ActivityLogUpdate {
	_u.mutation.ResetPercentage()
	_u.mutation.SetPercentage(v)
	return _u
}

// SetNillablePercentage sets the "percentage" field if the given value is not nil.
func (_u *ActivityLogUpdate) SetNillablePercentage(v *int) *ActivityLogUpdate {
	if v != nil {
		_u.SetPercentage(*v)
	}
	return _u
}

// AddPercentage adds value to the "percentage" field.
func (_u *ActivityLogUpdate) AddPercentage(v int) *ActivityLogUpdate {
	_u.mutation.AddPercentage(v)
	return _u
}

// ClearPercentage clears the value of the "percentage" field.
func (_u *ActivityLogUpdate) ClearPercentage() *ActivityLogUpdate {
	_u.mutation.ClearPercentage()
	return _u
}

// Mutation returns the ActivityLogMutation object of the builder.
func (_u *ActivityLogUpdate) Mutation() *ActivityLogMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *ActivityLogUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ActivityLogUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *ActivityLogUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ActivityLogUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *ActivityLogUpdate) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := activitylog.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "ActivityLog.status": %w`, err)}
		}
	}
	if _u.mutation.ActivityCleared() && len(_u.mutation.ActivityIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "ActivityLog.activity"`)
	}
	return nil
}

// Modify adds a statement modifier for attaching custom logic to the UPDATE statement.
func (_u *ActivityLogUpdate) Modify(modifiers ...func(u *sql.UpdateBuilder)) *ActivityLogUpdate {
	_u.modifiers = append(_u.modifiers, modifiers...)
	return _u
}

func (_u *ActivityLogUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(activitylog.Table, activitylog.Columns, sqlgraph.NewFieldSpec(activitylog.FieldID, field.TypeInt))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Message(); ok {
		_spec.SetField(activitylog.FieldMessage, field.TypeString, value)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(activitylog.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Percentage(); ok {
		_spec.SetField(activitylog.FieldPercentage, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedPercentage(); ok {
		_spec.AddField(activitylog.FieldPercentage, field.TypeInt, value)
	}
	if _u.mutation.PercentageCleared() {
		_spec.ClearField(activitylog.FieldPercentage, field.TypeInt)
	}
	_spec.AddModifiers(_u.modifiers...)
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{activitylog.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// ActivityLogUpdateOne is the builder for updating a single ActivityLog entity.
type ActivityLogUpdateOne struct {
	config
	fields    []string
	hooks     []Hook
	mutation  *ActivityLogMutation
	modifiers []func(*sql.UpdateBuilder)
}

// SetMessage sets the "message" field.
func (_u *ActivityLogUpdateOne) SetMessage(v string) *ActivityLogUpdateOne {
	_u.mutation.SetMessage(v)
	return _u
}

// SetNillableMessage sets the "message" field if the given value is not nil.
func (_u *ActivityLogUpdateOne) SetNillableMessage(v *string) *ActivityLogUpdateOne {
	if v != nil {
		_u.SetMessage(*v)
	}
	return _u
}

// SetStatus sets the "status" field.
func (_u *ActivityLogUpdateOne) SetStatus(v activitylog.Status) *ActivityLogUpdateOne {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *ActivityLogUpdateOne) SetNillableStatus(v *activitylog.Status) *ActivityLogUpdateOne {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetPercentage sets the "percentage" field.
func (_u *ActivityLogUpdateOne) SetPercentage(v int) *ActivityLogUpdateOne {
	_u.mutation.ResetPercentage()
	_u.mutation.SetPercentage(v)
	return _u
}

// SetNillablePercentage sets the "percentage" field if the given value is not nil.
func (_u *ActivityLogUpdateOne) SetNillablePercentage(v *int) *ActivityLogUpdateOne {
	if v != nil {
		_u.SetPercentage(*v)
	}
	return _u
}

// AddPercentage adds value to the "percentage" field.
func (_u *ActivityLogUpdateOne) AddPercentage(v int) *ActivityLogUpdateOne {
	_u.mutation.AddPercentage(v)
	return _u
}

// ClearPercentage clears the value of the "percentage" field.
func (_u *ActivityLogUpdateOne) ClearPercentage() *ActivityLogUpdateOne {
	_u.mutation.ClearPercentage()
	return _u
}

// Mutation returns the ActivityLogMutation object of the builder.
func (_u *ActivityLogUpdateOne) Mutation() *ActivityLogMutation {
	return _u.mutation
}

// Where appends a list predicates to the ActivityLogUpdate builder.
func (_u *ActivityLogUpdateOne) Where(ps ...predicate.ActivityLog) *ActivityLogUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *ActivityLogUpdateOne) Select(field string, fields ...string) *ActivityLogUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated ActivityLog entity.
func (_u *ActivityLogUpdateOne) Save(ctx context.Context) (*ActivityLog, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ActivityLogUpdateOne) SaveX(ctx context.Context) *ActivityLog {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *ActivityLogUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ActivityLogUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *ActivityLogUpdateOne) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := activitylog.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "ActivityLog.status": %w`, err)}
		}
	}
	if _u.mutation.ActivityCleared() && len(_u.mutation.ActivityIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "ActivityLog.activity"`)
	}
	return nil
}

// Modify adds a statement modifier for attaching custom logic to the UPDATE statement.
func (_u *ActivityLogUpdateOne) Modify(modifiers ...func(u *sql.UpdateBuilder)) *ActivityLogUpdateOne {
	_u.modifiers = append(_u.modifiers, modifiers...)
	return _u
}

func (_u *ActivityLogUpdateOne) sqlSave(ctx context.Context) (_node *ActivityLog, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(activitylog.Table, activitylog.Columns, sqlgraph.NewFieldSpec(activitylog.FieldID, field.TypeInt))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "ActivityLog.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, activitylog.FieldID)
		for _, f := range fields {
			if !activitylog.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != activitylog.FieldID {
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
	if value, ok := _u.mutation.Message(); ok {
		_spec.SetField(activitylog.FieldMessage, field.TypeString, value)
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(activitylog.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Percentage(); ok {
		_spec.SetField(activitylog.FieldPercentage, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedPercentage(); ok {
		_spec.AddField(activitylog.FieldPercentage, field.TypeInt, value)
	}
	if _u.mutation.PercentageCleared() {
		_spec.ClearField(activitylog.FieldPercentage, field.TypeInt)
	}
	_spec.AddModifiers(_u.modifiers...)
	_node = &ActivityLog{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{activitylog.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
