// Package authz implements the authorization policy for tasks and comments.
// It is the single source of truth for visibility and write access; neither
// the service layer nor the HTTP handlers duplicate these rules.
//
// Two access surfaces share these entities with deliberately different
// policies. The resource API hard-denies non-owner writes. The administrative
// surface lets any staff actor open a task's detail view but coerces every
// field to read-only unless the actor is the owner or a superuser. The
// asymmetry is intentional and must be kept.
package authz

import "github.com/hdhector/taskflow/internal/domain"

// TaskFields is the explicit enumeration of client-writable task fields.
// Owner and timestamps are never client-writable on any surface.
var TaskFields = []string{"title", "description", "priority", "status"}

// CommentFields is the explicit enumeration of client-writable comment
// fields on the administrative surface. Author and task references are
// fixed at creation.
var CommentFields = []string{"content"}

// CanRead reports whether the actor may read the given task and its
// comments. Any authenticated actor may read any task; per-object read
// restriction is reserved for stricter deployments.
func CanRead(actor *domain.User, task *domain.Task) bool {
	return actor != nil && task != nil
}

// CanWrite reports whether the actor may mutate the given task through the
// resource API. True iff the actor owns the task or is a superuser.
func CanWrite(actor *domain.User, task *domain.Task) bool {
	if actor == nil || task == nil {
		return false
	}
	return actor.ID == task.OwnerID || actor.IsSuperuser
}

// CanComment reports whether the actor may attach a comment to the task.
// Commenting requires read access only, not ownership.
func CanComment(actor *domain.User, task *domain.Task) bool {
	return CanRead(actor, task)
}

// CanOpenAdminDetail reports whether the actor may open the task's detail
// view on the administrative surface. Any staff actor may look; whether
// they can change anything is decided by WritableFields.
func CanOpenAdminDetail(actor *domain.User) bool {
	return actor != nil && actor.IsStaff
}

// WritableFields returns the set of task fields the actor may change.
// The full field set for the owner or a superuser, the empty set otherwise.
// The administrative surface renders fields outside this set as read-only
// and discards client-supplied values for them.
func WritableFields(actor *domain.User, task *domain.Task) []string {
	if !CanWrite(actor, task) {
		return nil
	}
	fields := make([]string, len(TaskFields))
	copy(fields, TaskFields)
	return fields
}

// WritableCommentFields returns the set of comment fields the actor may
// change through the administrative surface's inline editor. Staff actors
// may edit comment content; author and task stay immutable for everyone.
func WritableCommentFields(actor *domain.User, task *domain.Task) []string {
	if actor == nil || task == nil || !actor.IsStaff {
		return nil
	}
	fields := make([]string, len(CommentFields))
	copy(fields, CommentFields)
	return fields
}

// FieldWritable reports whether a specific field name is in the writable
// set returned by WritableFields.
func FieldWritable(actor *domain.User, task *domain.Task, field string) bool {
	for _, f := range WritableFields(actor, task) {
		if f == field {
			return true
		}
	}
	return false
}
