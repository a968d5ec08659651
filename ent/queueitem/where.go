// Code generated by ent, DO NOT EDIT.

package queueitem

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/agentexec/agentexec/ent/predicate"
)

// ID filters vertices based on their ID field.
func ID(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldID, id))
}

// IDEQ applies the EQ predicate on the ID field.
func IDEQ(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldID, id))
}

// IDNEQ applies the NEQ predicate on the ID field.
func IDNEQ(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNEQ(FieldID, id))
}

// IDIn applies the In predicate on the ID field.
func IDIn(ids ...int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldIn(FieldID, ids...))
}

// IDNotIn applies the NotIn predicate on the ID field.
func IDNotIn(ids ...int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNotIn(FieldID, ids...))
}

// IDGT applies the GT predicate on the ID field.
func IDGT(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGT(FieldID, id))
}

// IDGTE applies the GTE predicate on the ID field.
func IDGTE(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGTE(FieldID, id))
}

// IDLT applies the LT predicate on the ID field.
func IDLT(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLT(FieldID, id))
}

// IDLTE applies the LTE predicate on the ID field.
func IDLTE(id int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLTE(FieldID, id))
}

// Queue applies equality check predicate on the "queue" field. It's identical to QueueEQ.
func Queue(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldQueue, v))
}

// Priority applies equality check predicate on the "priority" field. It's identical to PriorityEQ.
func Priority(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldPriority, v))
}

// Payload applies equality check predicate on the "payload" field. It's identical to PayloadEQ.
func Payload(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldPayload, v))
}

// CreatedAt applies equality check predicate on the "created_at" field. It's identical to CreatedAtEQ.
func CreatedAt(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldCreatedAt, v))
}

// QueueEQ applies the EQ predicate on the "queue" field.
func QueueEQ(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldQueue, v))
}

// QueueNEQ applies the NEQ predicate on the "queue" field.
func QueueNEQ(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNEQ(FieldQueue, v))
}

// QueueIn applies the In predicate on the "queue" field.
func QueueIn(vs ...string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldIn(FieldQueue, vs...))
}

// QueueNotIn applies the NotIn predicate on the "queue" field.
func QueueNotIn(vs ...string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNotIn(FieldQueue, vs...))
}

// QueueGT applies the GT predicate on the "queue" field.
func QueueGT(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGT(FieldQueue, v))
}

// QueueGTE applies the GTE predicate on the "queue" field.
func QueueGTE(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGTE(FieldQueue, v))
}

// QueueLT applies the LT predicate on the "queue" field.
func QueueLT(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLT(FieldQueue, v))
}

// QueueLTE applies the LTE predicate on the "queue" field.
func QueueLTE(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLTE(FieldQueue, v))
}

// QueueContains applies the Contains predicate on the "queue" field.
func QueueContains(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldContains(FieldQueue, v))
}

// QueueHasPrefix applies the HasPrefix predicate on the "queue" field.
func QueueHasPrefix(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldHasPrefix(FieldQueue, v))
}

// QueueHasSuffix applies the HasSuffix predicate on the "queue" field.
func QueueHasSuffix(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldHasSuffix(FieldQueue, v))
}

// QueueEqualFold applies the EqualFold predicate on the "queue" field.
func QueueEqualFold(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEqualFold(FieldQueue, v))
}

// QueueContainsFold applies the ContainsFold predicate on the "queue" field.
func QueueContainsFold(v string) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldContainsFold(FieldQueue, v))
}

// PriorityEQ applies the EQ predicate on the "priority" field.
func PriorityEQ(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldPriority, v))
}

// PriorityNEQ applies the NEQ predicate on the "priority" field.
func PriorityNEQ(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNEQ(FieldPriority, v))
}

// PriorityIn applies the In predicate on the "priority" field.
func PriorityIn(vs ...int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldIn(FieldPriority, vs...))
}

// PriorityNotIn applies the NotIn predicate on the "priority" field.
func PriorityNotIn(vs ...int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNotIn(FieldPriority, vs...))
}

// PriorityGT applies the GT predicate on the "priority" field.
func PriorityGT(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGT(FieldPriority, v))
}

// PriorityGTE applies the GTE predicate on the "priority" field.
func PriorityGTE(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGTE(FieldPriority, v))
}

// PriorityLT applies the LT predicate on the "priority" field.
func PriorityLT(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLT(FieldPriority, v))
}

// PriorityLTE applies the LTE predicate on the "priority" field.
func PriorityLTE(v int) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLTE(FieldPriority, v))
}

// PayloadEQ applies the EQ predicate on the "payload" field.
func PayloadEQ(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldPayload, v))
}

// PayloadNEQ applies the NEQ predicate on the "payload" field.
func PayloadNEQ(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNEQ(FieldPayload, v))
}

// PayloadIn applies the In predicate on the "payload" field.
func PayloadIn(vs ...[]byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldIn(FieldPayload, vs...))
}

// PayloadNotIn applies the NotIn predicate on the "payload" field.
func PayloadNotIn(vs ...[]byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNotIn(FieldPayload, vs...))
}

// PayloadGT applies the GT predicate on the "payload" field.
func PayloadGT(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGT(FieldPayload, v))
}

// PayloadGTE applies the GTE predicate on the "payload" field.
func PayloadGTE(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGTE(FieldPayload, v))
}

// PayloadLT applies the LT predicate on the "payload" field.
func PayloadLT(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLT(FieldPayload, v))
}

// PayloadLTE applies the LTE predicate on the "payload" field.
func PayloadLTE(v []byte) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLTE(FieldPayload, v))
}

// CreatedAtEQ applies the EQ predicate on the "created_at" field.
func CreatedAtEQ(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldEQ(FieldCreatedAt, v))
}

// CreatedAtNEQ applies the NEQ predicate on the "created_at" field.
func CreatedAtNEQ(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNEQ(FieldCreatedAt, v))
}

// CreatedAtIn applies the In predicate on the "created_at" field.
func CreatedAtIn(vs ...time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldIn(FieldCreatedAt, vs...))
}

// CreatedAtNotIn applies the NotIn predicate on the "created_at" field.
func CreatedAtNotIn(vs ...time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldNotIn(FieldCreatedAt, vs...))
}

// CreatedAtGT applies the GT predicate on the "created_at" field.
func CreatedAtGT(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGT(FieldCreatedAt, v))
}

// CreatedAtGTE applies the GTE predicate on the "created_at" field.
func CreatedAtGTE(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldGTE(FieldCreatedAt, v))
}

// CreatedAtLT applies the LT predicate on the "created_at" field.
func CreatedAtLT(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLT(FieldCreatedAt, v))
}

// CreatedAtLTE applies the LTE predicate on the "created_at" field.
func CreatedAtLTE(v time.Time) predicate.QueueItem {
	return predicate.QueueItem(sql.FieldLTE(FieldCreatedAt, v))
}

// And groups predicates with the AND operator between them.
func And(predicates ...predicate.QueueItem) predicate.QueueItem {
	return predicate.QueueItem(sql.AndPredicates(predicates...))
}

// Or groups predicates with the OR operator between them.
func Or(predicates ...predicate.QueueItem) predicate.QueueItem {
	return predicate.QueueItem(sql.OrPredicates(predicates...))
}

// Not applies the not operator on the given predicate.
func Not(p predicate.QueueItem) predicate.QueueItem {
	return predicate.QueueItem(sql.NotPredicates(p))
}
