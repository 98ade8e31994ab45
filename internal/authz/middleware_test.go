package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathlight-lms/pathlight/internal/shared"
)

func testMiddleware(t *testing.T) Middleware {
	t.Helper()
	return Middleware{
		Table:    DefaultTable(),
		Resolver: NewResolver(newStubStore()),
	}
}

func okHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

// serve routes one request through a chi router with the given middleware
// applied to the pattern, optionally injecting an identity.
func serve(t *testing.T, mw func(http.Handler) http.Handler, method, pattern, target string, id *Identity) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.With(mw).Method(method, pattern, okHandler())

	req := httptest.NewRequest(method, target, nil)
	if id != nil {
		req = req.WithContext(ContextWithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeRejection(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	return body
}

func TestProtectRejectsMissingIdentity(t *testing.T) {
	mw := testMiddleware(t)

	rec := serve(t, mw.RequireRole(RoleAdmin), http.MethodGet, "/x", "/x", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeRejection(t, rec)
	assert.Equal(t, shared.ErrNoToken.Error(), body["message"])
}

func TestRequireRole(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequireRole(RoleAdmin, RoleInstructor)

	rec := serve(t, guard, http.MethodGet, "/x", "/x", &instructor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, guard, http.MethodGet, "/x", "/x", &student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeRejection(t, rec)
	assert.Equal(t, "access denied, required roles: admin, instructor", body["message"])
}

func TestRequirePermissionStudentDeniedUserDelete(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequirePermission(shared.PermUsersDelete)

	rec := serve(t, guard, http.MethodDelete, "/users/{id}", "/users/3", &student)
	assert.Equal(t, http.StatusForbidden, rec.Code, "authentication alone never grants a permission")
	body := decodeRejection(t, rec)
	assert.Equal(t, shared.PermUsersDelete, body["required_permission"])

	rec = serve(t, guard, http.MethodDelete, "/users/{id}", "/users/3", &admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireSelfOrRole(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequireSelfOrRole(RoleAdmin)

	rec := serve(t, guard, http.MethodGet, "/users/{id}", "/users/3", &student)
	assert.Equal(t, http.StatusOK, rec.Code, "self access allowed")

	rec = serve(t, guard, http.MethodGet, "/users/{id}", "/users/2", &student)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, guard, http.MethodGet, "/users/{id}", "/users/2", &admin)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireCourseInstructor(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequireCourseInstructor()

	rec := serve(t, guard, http.MethodPut, "/courses/{id}", "/courses/10", &instructor)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, guard, http.MethodPut, "/courses/{id}", "/courses/10", &outsider)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, guard, http.MethodPut, "/courses/{id}", "/courses/10", &admin)
	assert.Equal(t, http.StatusOK, rec.Code, "admin manages any course")

	rec = serve(t, guard, http.MethodPut, "/courses/{id}", "/courses/999", &admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireCourseEnrollment(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequireCourseEnrollment()

	rec := serve(t, guard, http.MethodGet, "/courses/{courseId}/lessons", "/courses/10/lessons", &student)
	assert.Equal(t, http.StatusOK, rec.Code, "enrolled student")

	rec = serve(t, guard, http.MethodGet, "/courses/{courseId}/lessons", "/courses/10/lessons", &instructor)
	assert.Equal(t, http.StatusOK, rec.Code, "course instructor")

	rec = serve(t, guard, http.MethodGet, "/courses/{courseId}/lessons", "/courses/10/lessons", &admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, guard, http.MethodGet, "/courses/{courseId}/lessons", "/courses/10/lessons", &outsider)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeRejection(t, rec)
	assert.Equal(t, "must be enrolled in this course", body["message"])

	rec = serve(t, guard, http.MethodGet, "/courses/{courseId}/lessons", "/courses/999/lessons", &student)
	assert.Equal(t, http.StatusNotFound, rec.Code, "missing course stays a 404")
}

func TestRequireOwnershipTask(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequireOwnership(ResourceTask)

	rec := serve(t, guard, http.MethodGet, "/tasks/{id}", "/tasks/20", &student)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, guard, http.MethodGet, "/tasks/{id}", "/tasks/20", &outsider)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(t, guard, http.MethodGet, "/tasks/{id}", "/tasks/999", &student)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResourceIDValidation(t *testing.T) {
	mw := testMiddleware(t)
	guard := mw.RequireOwnership(ResourceTask)

	rec := serve(t, guard, http.MethodGet, "/tasks/{id}", "/tasks/abc", &student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeRejection(t, rec)
	assert.Equal(t, "invalid resource id", body["message"])

	rec = serve(t, guard, http.MethodGet, "/tasks/{id}", "/tasks/-5", &student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, guard, http.MethodGet, "/tasks", "/tasks", &student)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeRejection(t, rec)
	assert.Equal(t, "missing resource id", body["message"])
}

// A chain declared permission-then-ownership must report the permission
// failure without touching the store.
func TestProtectChainOrder(t *testing.T) {
	store := newStubStore()
	mw := Middleware{Table: DefaultTable(), Resolver: NewResolver(store)}

	var storeTouched bool
	tracking := GuardFunc(func(r *http.Request, id Identity) Decision {
		d := mw.OwnershipGuard(ResourceCourse).Evaluate(r, id)
		storeTouched = true
		return d
	})
	chain := mw.Protect(mw.PermissionGuard(shared.PermCoursesDelete), tracking)

	rec := serve(t, chain, http.MethodDelete, "/courses/{id}", "/courses/10", &student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, storeTouched, "ownership guard must not run after a permission rejection")

	rec = serve(t, chain, http.MethodDelete, "/courses/{id}", "/courses/10", &admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, storeTouched)
}
