package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdhector/taskflow/internal/domain"
	"github.com/hdhector/taskflow/internal/mocks"
	"github.com/hdhector/taskflow/internal/store"
)

func newTestAdminService(tasks *mocks.MockTaskStore, comments *mocks.MockCommentStore) *adminService {
	return &adminService{
		db:       &mocks.MockTxRunner{},
		tasks:    tasks,
		comments: comments,
		logger:   slog.Default(),
		runInTx:  mocks.RunTxDirect,
	}
}

func staffUser(username string) *domain.User {
	u := testUser(username)
	u.IsStaff = true
	return u
}

func TestAdminListTasksSpansAllOwners(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	addActiveTasks(t, taskStore, uuid.New(), 2)
	addActiveTasks(t, taskStore, uuid.New(), 3)

	page, err := svc.ListTasks(context.Background(), staffUser("admin"), store.ListTasksParams{})

	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
}

func TestAdminListTasksRequiresStaff(t *testing.T) {
	svc := newTestAdminService(mocks.NewMockTaskStore(), mocks.NewMockCommentStore())

	_, err := svc.ListTasks(context.Background(), testUser("alice"), store.ListTasksParams{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListTasks(context.Background(), nil, store.ListTasksParams{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdminGetTaskWritableFields(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	owner := staffUser("alice")
	otherStaff := staffUser("bob")
	task, err := domain.NewTask(owner.ID, "Reviewed", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	ownDetail, err := svc.GetTask(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"title", "description", "priority", "status"}, ownDetail.WritableFields)

	otherDetail, err := svc.GetTask(context.Background(), otherStaff, task.ID)
	require.NoError(t, err)
	assert.Empty(t, otherDetail.WritableFields, "non-owner staff sees a read-only detail")
}

func TestAdminUpdateTaskSoftDeniesNonOwner(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	owner := staffUser("alice")
	otherStaff := staffUser("bob")
	task, err := domain.NewTask(owner.ID, "Untouchable", "", domain.PriorityLow, "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	newTitle := "Vandalized"
	newPriority := domain.PriorityHigh
	detail, err := svc.UpdateTask(context.Background(), otherStaff, task.ID, UpdateTaskInput{
		Title:    &newTitle,
		Priority: &newPriority,
	})

	// Not an error: the submitted values are discarded and the stored
	// state comes back untouched.
	require.NoError(t, err)
	assert.Equal(t, "Untouchable", detail.Task.Title)
	assert.Equal(t, domain.PriorityLow, detail.Task.Priority)
	assert.Empty(t, detail.WritableFields)

	stored, getErr := taskStore.GetByID(context.Background(), task.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Untouchable", stored.Title)
}

func TestAdminUpdateTaskByOwner(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	owner := staffUser("alice")
	task, err := domain.NewTask(owner.ID, "Before", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	newTitle := "After"
	detail, err := svc.UpdateTask(context.Background(), owner, task.ID, UpdateTaskInput{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "After", detail.Task.Title)
	assert.Equal(t, []string{"title", "description", "priority", "status"}, detail.WritableFields)
}

func TestAdminUpdateTaskBySuperuser(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	superuser := staffUser("root")
	superuser.IsSuperuser = true

	task, err := domain.NewTask(owner.ID, "Before", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	newStatus := domain.StatusDone
	detail, err := svc.UpdateTask(context.Background(), superuser, task.ID, UpdateTaskInput{Status: &newStatus})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, detail.Task.Status)
}

func TestAdminUpdateTaskQuotaBelongsToOwner(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	superuser := staffUser("root")
	superuser.IsSuperuser = true

	addActiveTasks(t, taskStore, owner.ID, MaxActiveTasks)
	done, err := domain.NewTask(owner.ID, "Closed", "", "", domain.StatusDone)
	require.NoError(t, err)
	taskStore.AddTask(done)

	// Reopening through the admin surface still counts against the task
	// owner's quota, not the editor's.
	newStatus := domain.StatusPending
	_, err = svc.UpdateTask(context.Background(), superuser, done.ID, UpdateTaskInput{Status: &newStatus})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
	require.NotEmpty(t, taskStore.CountCalls)
	assert.Equal(t, owner.ID, taskStore.CountCalls[0])
}

func TestAdminCreateComment(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestAdminService(taskStore, commentStore)

	owner := testUser("alice")
	staff := staffUser("mod")
	task, err := domain.NewTask(owner.ID, "Moderated", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)

	view, err := svc.CreateComment(context.Background(), staff, task.ID, "Please clarify")

	require.NoError(t, err)
	assert.Equal(t, staff.ID, view.Comment.AuthorID, "author is forced to the acting staff user")
	assert.Equal(t, "mod", view.AuthorName)
}

func TestAdminUpdateComment(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestAdminService(taskStore, commentStore)

	owner := testUser("alice")
	staff := staffUser("mod")
	task, err := domain.NewTask(owner.ID, "Edited", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)

	comment, err := domain.NewComment(task.ID, owner.ID, "typo here")
	require.NoError(t, err)
	commentStore.AddComment(comment)
	commentStore.AuthorNames[owner.ID] = owner.Username

	view, err := svc.UpdateComment(context.Background(), staff, task.ID, comment.ID, "fixed")

	require.NoError(t, err)
	assert.Equal(t, "fixed", view.Comment.Content)
	assert.Equal(t, owner.ID, view.Comment.AuthorID, "the author never changes on edit")
	assert.Equal(t, "alice", view.AuthorName)
}

func TestAdminUpdateCommentWrongTask(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestAdminService(taskStore, commentStore)

	staff := staffUser("mod")
	taskA, err := domain.NewTask(uuid.New(), "A", "", "", "")
	require.NoError(t, err)
	taskB, err := domain.NewTask(uuid.New(), "B", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(taskA)
	taskStore.AddTask(taskB)

	comment, err := domain.NewComment(taskA.ID, uuid.New(), "on A")
	require.NoError(t, err)
	commentStore.AddComment(comment)

	// Addressing a comment through the wrong task's URL must not find it.
	_, err = svc.UpdateComment(context.Background(), staff, taskB.ID, comment.ID, "moved?")
	assert.ErrorIs(t, err, store.ErrCommentNotFound)
}

func TestAdminSurfaceRequiresStaff(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestAdminService(taskStore, mocks.NewMockCommentStore())

	regular := testUser("alice")
	task, err := domain.NewTask(regular.ID, "Own task", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)

	// Even the task's owner is rejected here without the staff flag.
	_, err = svc.GetTask(context.Background(), regular, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	newTitle := "x"
	_, err = svc.UpdateTask(context.Background(), regular, task.ID, UpdateTaskInput{Title: &newTitle})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateComment(context.Background(), regular, task.ID, "hi")
	assert.ErrorIs(t, err, ErrForbidden)
}
