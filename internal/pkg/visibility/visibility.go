// Package visibility defines the named filters that decide which records a
// lookup is allowed to see.
//
// Each flag names a predicate over a record's active flag and soft-delete
// timestamp. Flags are combined as an unordered set with AND semantics; the
// empty set hides nothing, including inactive and soft-deleted records.
package visibility

import (
	"time"

	"gorm.io/gorm"
)

// Flag is a named visibility predicate
type Flag string

const (
	// ExcludeInactive passes only records where active is true
	ExcludeInactive Flag = "EXCLUDE_INACTIVE"
	// ExcludeDeleted passes only records that are not soft-deleted
	ExcludeDeleted Flag = "EXCLUDE_DELETED"
)

// FlagSet is an unordered set of visibility flags
type FlagSet map[Flag]struct{}

// NewFlagSet builds a set from the given flags
func NewFlagSet(flags ...Flag) FlagSet {
	set := make(FlagSet, len(flags))
	for _, f := range flags {
		set[f] = struct{}{}
	}
	return set
}

// DefaultFlags is the filter applied by public-facing read, update and
// delete paths unless the caller explicitly widens it.
func DefaultFlags() FlagSet {
	return NewFlagSet(ExcludeInactive, ExcludeDeleted)
}

// DeleteFlags is the filter applied when resolving a record for deletion:
// already-deleted records must not resolve, inactive ones still may.
func DeleteFlags() FlagSet {
	return NewFlagSet(ExcludeDeleted)
}

// Record is the minimal surface a visibility predicate inspects
type Record interface {
	VisibilityActive() bool
	VisibilityDeletedAt() *time.Time
}

// predicates maps each flag to its pure predicate
var predicates = map[Flag]func(Record) bool{
	ExcludeInactive: func(r Record) bool { return r.VisibilityActive() },
	ExcludeDeleted:  func(r Record) bool { return r.VisibilityDeletedAt() == nil },
}

// conditions maps each flag to its SQL condition
var conditions = map[Flag]func(*gorm.DB) *gorm.DB{
	ExcludeInactive: func(db *gorm.DB) *gorm.DB { return db.Where("active = ?", true) },
	ExcludeDeleted:  func(db *gorm.DB) *gorm.DB { return db.Where("deleted_at IS NULL") },
}

// Matches reports whether a record passes every flag in the set. An empty
// set accepts everything. AND is commutative, so iteration order over the
// set does not affect the result.
func Matches(flags FlagSet, rec Record) bool {
	for f := range flags {
		pred, ok := predicates[f]
		if !ok {
			continue
		}
		if !pred(rec) {
			return false
		}
	}
	return true
}

// Scope returns a GORM scope that ANDs the condition of every flag in the
// set onto a query. An empty set leaves the query untouched.
func Scope(flags FlagSet) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for f := range flags {
			if cond, ok := conditions[f]; ok {
				db = cond(db)
			}
		}
		return db
	}
}
