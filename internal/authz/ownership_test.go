package authz

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// stubStore serves ownership lookups from fixed maps, with optional error
// injection per lookup.
type stubStore struct {
	courseInstructors map[int64]int64
	taskOwners        map[int64]int64
	progress          map[int64]ProgressRecord
	users             map[int64]bool
	enrollments       map[[2]int64]bool

	err error
}

func (s *stubStore) CourseInstructor(_ context.Context, courseID int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	id, ok := s.courseInstructors[courseID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func (s *stubStore) TaskOwner(_ context.Context, taskID int64) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	id, ok := s.taskOwners[taskID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return id, nil
}

func (s *stubStore) Progress(_ context.Context, progressID int64) (ProgressRecord, error) {
	if s.err != nil {
		return ProgressRecord{}, s.err
	}
	rec, ok := s.progress[progressID]
	if !ok {
		return ProgressRecord{}, shared.ErrNotFound
	}
	return rec, nil
}

func (s *stubStore) UserExists(_ context.Context, userID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.users[userID], nil
}

func (s *stubStore) EnrollmentExists(_ context.Context, userID, courseID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.enrollments[[2]int64{userID, courseID}], nil
}

func newStubStore() *stubStore {
	return &stubStore{
		courseInstructors: map[int64]int64{10: 2},
		taskOwners:        map[int64]int64{20: 3},
		progress:          map[int64]ProgressRecord{30: {UserID: 3, CourseID: 10, InstructorID: 2}},
		users:             map[int64]bool{1: true, 2: true, 3: true},
		enrollments:       map[[2]int64]bool{{3, 10}: true},
	}
}

var (
	admin      = Identity{ID: 1, Role: RoleAdmin}
	instructor = Identity{ID: 2, Role: RoleInstructor}
	student    = Identity{ID: 3, Role: RoleStudent}
	outsider   = Identity{ID: 9, Role: RoleStudent}
)

func TestResolveCourse(t *testing.T) {
	rv := NewResolver(newStubStore())
	ctx := context.Background()

	assert.True(t, rv.Resolve(ctx, ResourceCourse, 10, instructor).Allowed)
	assert.True(t, rv.Resolve(ctx, ResourceCourse, 10, admin).Allowed, "admin bypasses ownership")

	d := rv.Resolve(ctx, ResourceCourse, 10, student)
	assert.False(t, d.Allowed)
	assert.Equal(t, http.StatusForbidden, d.Status)
}

func TestResolveMissingResourceIs404ForEveryone(t *testing.T) {
	rv := NewResolver(newStubStore())
	ctx := context.Background()

	for _, id := range []Identity{admin, instructor, student} {
		d := rv.Resolve(ctx, ResourceCourse, 999, id)
		assert.False(t, d.Allowed)
		assert.Equal(t, http.StatusNotFound, d.Status, "role %s", id.Role)
	}

	d := rv.Resolve(ctx, ResourceTask, 999, admin)
	assert.Equal(t, http.StatusNotFound, d.Status, "existence check runs before the admin bypass")
}

func TestResolveTask(t *testing.T) {
	rv := NewResolver(newStubStore())
	ctx := context.Background()

	assert.True(t, rv.Resolve(ctx, ResourceTask, 20, student).Allowed)
	assert.True(t, rv.Resolve(ctx, ResourceTask, 20, admin).Allowed)

	d := rv.Resolve(ctx, ResourceTask, 20, outsider)
	assert.False(t, d.Allowed)
	assert.Equal(t, http.StatusForbidden, d.Status)
	assert.Equal(t, "not the task owner", d.Message)
}

func TestResolveProgress(t *testing.T) {
	rv := NewResolver(newStubStore())
	ctx := context.Background()

	assert.True(t, rv.Resolve(ctx, ResourceProgress, 30, student).Allowed, "enrolled user owns their progress")
	assert.True(t, rv.Resolve(ctx, ResourceProgress, 30, instructor).Allowed, "course instructor may read progress")
	assert.True(t, rv.Resolve(ctx, ResourceProgress, 30, admin).Allowed)

	d := rv.Resolve(ctx, ResourceProgress, 30, outsider)
	assert.Equal(t, http.StatusForbidden, d.Status)
}

func TestResolveUser(t *testing.T) {
	rv := NewResolver(newStubStore())
	ctx := context.Background()

	assert.True(t, rv.Resolve(ctx, ResourceUser, 3, student).Allowed, "self access")
	assert.True(t, rv.Resolve(ctx, ResourceUser, 3, admin).Allowed)

	d := rv.Resolve(ctx, ResourceUser, 2, student)
	assert.Equal(t, http.StatusForbidden, d.Status)

	d = rv.Resolve(ctx, ResourceUser, 999, admin)
	assert.Equal(t, http.StatusNotFound, d.Status)
}

func TestResolveEnrollmentAbsenceIsForbidden(t *testing.T) {
	rv := NewResolver(newStubStore())
	ctx := context.Background()

	assert.True(t, rv.Resolve(ctx, ResourceEnrollment, 10, student).Allowed)
	assert.True(t, rv.Resolve(ctx, ResourceEnrollment, 10, admin).Allowed)

	d := rv.Resolve(ctx, ResourceEnrollment, 10, outsider)
	assert.False(t, d.Allowed)
	assert.Equal(t, http.StatusForbidden, d.Status, "missing enrollment is an access decision, not a missing entity")
}

func TestResolveUnknownKind(t *testing.T) {
	rv := NewResolver(newStubStore())

	d := rv.Resolve(context.Background(), ResourceKind("widget"), 1, admin)
	assert.False(t, d.Allowed)
	assert.Equal(t, http.StatusBadRequest, d.Status)
}

func TestResolveStoreFailureClosesAccess(t *testing.T) {
	store := newStubStore()
	store.err = errors.New("connection reset")
	rv := NewResolver(store)
	ctx := context.Background()

	for _, kind := range []ResourceKind{ResourceCourse, ResourceTask, ResourceProgress, ResourceUser, ResourceEnrollment} {
		d := rv.Resolve(ctx, kind, 10, admin)
		assert.False(t, d.Allowed, "kind %s", kind)
		assert.Equal(t, http.StatusInternalServerError, d.Status, "kind %s", kind)
		assert.Error(t, d.Err, "kind %s", kind)
	}
}
