package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/hdhector/taskflow/internal/domain"
)

func newActor(isStaff, isSuperuser bool) *domain.User {
	return &domain.User{
		ID:          uuid.New(),
		Username:    "actor",
		Email:       "actor@example.com",
		IsStaff:     isStaff,
		IsSuperuser: isSuperuser,
	}
}

func taskOwnedBy(ownerID uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   "A task",
	}
}

func TestCanRead(t *testing.T) {
	actor := newActor(false, false)
	task := taskOwnedBy(uuid.New())

	assert.True(t, CanRead(actor, task), "any authenticated actor may read any task")
	assert.False(t, CanRead(nil, task), "unauthenticated actors may not read")
	assert.False(t, CanRead(actor, nil))
}

func TestCanWrite(t *testing.T) {
	owner := newActor(false, false)
	stranger := newActor(false, false)
	staff := newActor(true, false)
	superuser := newActor(true, true)
	task := taskOwnedBy(owner.ID)

	tests := []struct {
		name     string
		actor    *domain.User
		expected bool
	}{
		{"owner", owner, true},
		{"non-owner", stranger, false},
		{"staff non-owner", staff, false},
		{"superuser non-owner", superuser, true},
		{"nil actor", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CanWrite(tc.actor, task))
		})
	}
}

func TestCanComment(t *testing.T) {
	stranger := newActor(false, false)
	task := taskOwnedBy(uuid.New())

	assert.True(t, CanComment(stranger, task), "commenting requires read access only")
	assert.False(t, CanComment(nil, task))
}

func TestCanOpenAdminDetail(t *testing.T) {
	assert.True(t, CanOpenAdminDetail(newActor(true, false)))
	assert.False(t, CanOpenAdminDetail(newActor(false, false)))
	assert.False(t, CanOpenAdminDetail(nil))
}

func TestWritableFields(t *testing.T) {
	owner := newActor(false, false)
	staff := newActor(true, false)
	superuser := newActor(false, true)
	task := taskOwnedBy(owner.ID)

	assert.Equal(t, []string{"title", "description", "priority", "status"}, WritableFields(owner, task))
	assert.Equal(t, TaskFields, WritableFields(superuser, task))
	assert.Nil(t, WritableFields(staff, task), "staff without ownership gets the empty set")
	assert.Nil(t, WritableFields(nil, task))
}

func TestWritableFieldsAllOrNone(t *testing.T) {
	owner := newActor(false, false)
	stranger := newActor(true, false)
	task := taskOwnedBy(owner.ID)

	// The set is never partial: everything for a writer, nothing otherwise.
	assert.Len(t, WritableFields(owner, task), len(TaskFields))
	assert.Empty(t, WritableFields(stranger, task))
}

func TestWritableFieldsReturnsCopy(t *testing.T) {
	owner := newActor(false, false)
	task := taskOwnedBy(owner.ID)

	fields := WritableFields(owner, task)
	fields[0] = "mutated"

	assert.Equal(t, "title", TaskFields[0], "callers must not be able to mutate the policy")
}

func TestWritableCommentFields(t *testing.T) {
	staff := newActor(true, false)
	regular := newActor(false, false)
	task := taskOwnedBy(uuid.New())

	assert.Equal(t, []string{"content"}, WritableCommentFields(staff, task))
	assert.Nil(t, WritableCommentFields(regular, task))
	assert.Nil(t, WritableCommentFields(nil, task))
}

func TestFieldWritable(t *testing.T) {
	owner := newActor(false, false)
	task := taskOwnedBy(owner.ID)

	assert.True(t, FieldWritable(owner, task, "status"))
	assert.False(t, FieldWritable(owner, task, "owner"), "ownership is never writable")
	assert.False(t, FieldWritable(newActor(true, false), task, "status"))
}
