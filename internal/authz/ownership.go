package authz

import (
	"context"
	"errors"
	"net/http"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

// ResourceKind tags a protected resource type for ownership dispatch.
type ResourceKind string

// Protected resource kinds.
const (
	ResourceCourse     ResourceKind = "course"
	ResourceTask       ResourceKind = "task"
	ResourceProgress   ResourceKind = "progress"
	ResourceUser       ResourceKind = "user"
	ResourceEnrollment ResourceKind = "enrollment"
)

// ProgressRecord carries the ownership relations of one progress row:
// the enrolled user and, derived through the course, its instructor.
type ProgressRecord struct {
	UserID       int64
	CourseID     int64
	InstructorID int64
}

// Store is the read-only persistence collaborator behind ownership checks.
// Implementations return shared.ErrNotFound when the resource is absent.
type Store interface {
	CourseInstructor(ctx context.Context, courseID int64) (int64, error)
	TaskOwner(ctx context.Context, taskID int64) (int64, error)
	Progress(ctx context.Context, progressID int64) (ProgressRecord, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	EnrollmentExists(ctx context.Context, userID, courseID int64) (bool, error)
}

// Resolver decides whether an identity owns or may manage a resource. It
// never mutates anything; every lookup is a single read against the store.
type Resolver struct {
	store Store
}

// NewResolver constructs a Resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve runs the ownership check for one (kind, id, identity) triple.
// Unknown kinds reject with a client error rather than falling through.
func (rv *Resolver) Resolve(ctx context.Context, kind ResourceKind, resourceID int64, id Identity) Decision {
	switch kind {
	case ResourceCourse:
		return rv.resolveCourse(ctx, resourceID, id)
	case ResourceTask:
		return rv.resolveTask(ctx, resourceID, id)
	case ResourceProgress:
		return rv.resolveProgress(ctx, resourceID, id)
	case ResourceUser:
		return rv.resolveUser(ctx, resourceID, id)
	case ResourceEnrollment:
		return rv.resolveEnrollment(ctx, resourceID, id)
	default:
		return RejectWith(http.StatusBadRequest, "unknown resource type", map[string]any{
			"resource_type": string(kind),
		})
	}
}

func (rv *Resolver) resolveCourse(ctx context.Context, courseID int64, id Identity) Decision {
	instructorID, err := rv.store.CourseInstructor(ctx, courseID)
	if err != nil {
		return storeFailure(err, "course not found")
	}
	return ownerDecision(instructorID == id.ID, id, "not the course instructor")
}

func (rv *Resolver) resolveTask(ctx context.Context, taskID int64, id Identity) Decision {
	ownerID, err := rv.store.TaskOwner(ctx, taskID)
	if err != nil {
		return storeFailure(err, "task not found")
	}
	return ownerDecision(ownerID == id.ID, id, "not the task owner")
}

func (rv *Resolver) resolveProgress(ctx context.Context, progressID int64, id Identity) Decision {
	rec, err := rv.store.Progress(ctx, progressID)
	if err != nil {
		return storeFailure(err, "progress record not found")
	}
	isOwner := rec.UserID == id.ID || rec.InstructorID == id.ID
	return ownerDecision(isOwner, id, "not the progress owner")
}

func (rv *Resolver) resolveUser(ctx context.Context, userID int64, id Identity) Decision {
	exists, err := rv.store.UserExists(ctx, userID)
	if err != nil {
		return storeFailure(err, "user not found")
	}
	if !exists {
		return Reject(http.StatusNotFound, "user not found")
	}
	return ownerDecision(userID == id.ID, id, "cannot manage another user")
}

// resolveEnrollment treats an absent record as an access decision, not a
// missing entity: no matching enrollment is 403, never 404.
func (rv *Resolver) resolveEnrollment(ctx context.Context, courseID int64, id Identity) Decision {
	enrolled, err := rv.store.EnrollmentExists(ctx, id.ID, courseID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return storeFailure(err, "")
	}
	if enrolled {
		return Allow()
	}
	return ownerDecision(false, id, "not enrolled")
}

// ownerDecision applies the shared allow rule: owner or admin.
func ownerDecision(isOwner bool, id Identity, denied string) Decision {
	if isOwner || id.Role == RoleAdmin {
		return Allow()
	}
	return Reject(http.StatusForbidden, denied)
}

// storeFailure distinguishes a missing resource from an infrastructure
// error. Anything unexpected rejects with a generic server error so a
// failing store can never open access.
func storeFailure(err error, notFound string) Decision {
	if errors.Is(err, shared.ErrNotFound) && notFound != "" {
		return Reject(http.StatusNotFound, notFound)
	}
	d := Reject(http.StatusInternalServerError, "authorization check failed")
	d.Err = err
	return d
}
