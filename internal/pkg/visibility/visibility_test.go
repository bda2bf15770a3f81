package visibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRecord struct {
	active    bool
	deletedAt *time.Time
}

func (r fakeRecord) VisibilityActive() bool          { return r.active }
func (r fakeRecord) VisibilityDeletedAt() *time.Time { return r.deletedAt }

func deleted() *time.Time {
	ts := time.Now()
	return &ts
}

func TestMatchesEmptySetAcceptsEverything(t *testing.T) {
	records := []fakeRecord{
		{active: true},
		{active: false},
		{active: true, deletedAt: deleted()},
		{active: false, deletedAt: deleted()},
	}

	empty := NewFlagSet()
	for _, rec := range records {
		assert.True(t, Matches(empty, rec))
	}
}

func TestMatchesSingleFlags(t *testing.T) {
	inactive := fakeRecord{active: false}
	gone := fakeRecord{active: true, deletedAt: deleted()}

	assert.False(t, Matches(NewFlagSet(ExcludeInactive), inactive))
	assert.True(t, Matches(NewFlagSet(ExcludeDeleted), inactive))

	assert.True(t, Matches(NewFlagSet(ExcludeInactive), gone))
	assert.False(t, Matches(NewFlagSet(ExcludeDeleted), gone))
}

func TestMatchesDefaultFlagsRequireBoth(t *testing.T) {
	cases := []struct {
		name string
		rec  fakeRecord
		want bool
	}{
		{"active and present", fakeRecord{active: true}, true},
		{"inactive", fakeRecord{active: false}, false},
		{"deleted", fakeRecord{active: true, deletedAt: deleted()}, false},
		{"inactive and deleted", fakeRecord{active: false, deletedAt: deleted()}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(DefaultFlags(), tc.rec))
		})
	}
}

func TestMatchesOrderIndependent(t *testing.T) {
	rec := fakeRecord{active: false, deletedAt: deleted()}

	a := NewFlagSet(ExcludeInactive, ExcludeDeleted)
	b := NewFlagSet(ExcludeDeleted, ExcludeInactive)

	assert.Equal(t, Matches(a, rec), Matches(b, rec))
}

func TestMatchesDuplicateFlagsCollapse(t *testing.T) {
	set := NewFlagSet(ExcludeInactive, ExcludeInactive, ExcludeInactive)
	assert.Len(t, set, 1)
	assert.True(t, Matches(set, fakeRecord{active: true}))
	assert.False(t, Matches(set, fakeRecord{active: false}))
}

func TestDeleteFlagsAllowInactive(t *testing.T) {
	// Deleting an inactive record is allowed; deleting a deleted one is not.
	assert.True(t, Matches(DeleteFlags(), fakeRecord{active: false}))
	assert.False(t, Matches(DeleteFlags(), fakeRecord{active: false, deletedAt: deleted()}))
}
