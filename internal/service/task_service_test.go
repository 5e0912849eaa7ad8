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

// newTestTaskService builds a taskService over the in-memory mocks with the
// transaction runner short-circuited.
func newTestTaskService(tasks *mocks.MockTaskStore, comments *mocks.MockCommentStore) *taskService {
	return &taskService{
		db:       &mocks.MockTxRunner{},
		tasks:    tasks,
		comments: comments,
		logger:   slog.Default(),
		runInTx:  mocks.RunTxDirect,
	}
}

func testUser(username string) *domain.User {
	return &domain.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
}

func addActiveTasks(t *testing.T, tasks *mocks.MockTaskStore, ownerID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		task, err := domain.NewTask(ownerID, "Active task", "", "", "")
		require.NoError(t, err)
		tasks.AddTask(task)
	}
}

func TestCreateTask(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)
	actor := testUser("alice")

	detail, err := svc.Create(context.Background(), actor, CreateTaskInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    domain.PriorityHigh,
	})

	require.NoError(t, err)
	assert.Equal(t, "Write report", detail.Task.Title)
	assert.Equal(t, actor.ID, detail.Task.OwnerID, "owner must be the acting user")
	assert.Equal(t, domain.StatusPending, detail.Task.Status, "status defaults to pending")
	assert.Equal(t, "alice", detail.OwnerName)
	assert.Len(t, taskStore.Tasks, 1)
}

func TestCreateTaskQuotaExceeded(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)
	actor := testUser("alice")

	addActiveTasks(t, taskStore, actor.ID, MaxActiveTasks)

	_, err := svc.Create(context.Background(), actor, CreateTaskInput{Title: "One too many"})

	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), "Máximo 5 tareas activas por usuario")
	assert.Len(t, taskStore.Tasks, MaxActiveTasks, "no task may be created past the quota")
}

func TestCreateTaskDoneSkipsQuota(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)
	actor := testUser("alice")

	addActiveTasks(t, taskStore, actor.ID, MaxActiveTasks)

	// A task created directly as done never counts as active.
	detail, err := svc.Create(context.Background(), actor, CreateTaskInput{
		Title:  "Already finished",
		Status: domain.StatusDone,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, detail.Task.Status)
	assert.Empty(t, taskStore.LockCalls, "quota path must be skipped entirely for done tasks")
}

func TestCreateTaskQuotaCountsOnlyOwnTasks(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)
	actor := testUser("alice")
	other := testUser("bob")

	addActiveTasks(t, taskStore, other.ID, MaxActiveTasks)

	_, err := svc.Create(context.Background(), actor, CreateTaskInput{Title: "Mine"})
	require.NoError(t, err, "another user's tasks must not count against the actor's quota")
}

func TestCreateTaskAcquiresOwnerLockBeforeCounting(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)
	actor := testUser("alice")

	_, err := svc.Create(context.Background(), actor, CreateTaskInput{Title: "Locked"})
	require.NoError(t, err)

	require.Len(t, taskStore.LockCalls, 1)
	require.Len(t, taskStore.CountCalls, 1)
	assert.Equal(t, actor.ID, taskStore.LockCalls[0], "the lock is keyed by owner")
}

func TestCreateTaskUnauthenticated(t *testing.T) {
	svc := newTestTaskService(mocks.NewMockTaskStore(), mocks.NewMockCommentStore())

	_, err := svc.Create(context.Background(), nil, CreateTaskInput{Title: "Nope"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestTaskService(mocks.NewMockTaskStore(), mocks.NewMockCommentStore())
	actor := testUser("alice")

	_, err := svc.Create(context.Background(), actor, CreateTaskInput{Title: ""})
	assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)
}

func TestGetTask(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)

	owner := testUser("alice")
	reader := testUser("bob")
	task, err := domain.NewTask(owner.ID, "Shared", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	detail, err := svc.Get(context.Background(), reader, task.ID)

	require.NoError(t, err, "any authenticated user may read any task")
	assert.Equal(t, task.ID, detail.Task.ID)
	assert.Equal(t, "alice", detail.OwnerName)
}

func TestGetTaskNotFound(t *testing.T) {
	svc := newTestTaskService(mocks.NewMockTaskStore(), mocks.NewMockCommentStore())

	_, err := svc.Get(context.Background(), testUser("alice"), uuid.New())
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	commentStore := mocks.NewMockCommentStore()
	svc := newTestTaskService(taskStore, commentStore)

	owner := testUser("alice")
	task, err := domain.NewTask(owner.ID, "Before", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	newTitle := "After"
	newStatus := domain.StatusInProgress
	detail, err := svc.Update(context.Background(), owner, task.ID, UpdateTaskInput{
		Title:  &newTitle,
		Status: &newStatus,
	})

	require.NoError(t, err)
	assert.Equal(t, "After", detail.Task.Title)
	assert.Equal(t, domain.StatusInProgress, detail.Task.Status)
}

func TestUpdateTaskForbiddenForNonOwner(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	stranger := testUser("bob")
	task, err := domain.NewTask(owner.ID, "Private", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)

	newTitle := "Hijacked"
	_, err = svc.Update(context.Background(), stranger, task.ID, UpdateTaskInput{Title: &newTitle})

	require.ErrorIs(t, err, ErrForbidden)

	stored, getErr := taskStore.GetByID(context.Background(), task.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Private", stored.Title, "a denied update must not change the task")
}

func TestUpdateTaskSuperuserMayWrite(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	superuser := testUser("root")
	superuser.IsSuperuser = true

	task, err := domain.NewTask(owner.ID, "Anyone's", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)
	taskStore.OwnerNames[owner.ID] = owner.Username

	newTitle := "Fixed by admin"
	detail, err := svc.Update(context.Background(), superuser, task.ID, UpdateTaskInput{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "Fixed by admin", detail.Task.Title)
	assert.Equal(t, owner.ID, detail.Task.OwnerID, "ownership never changes on update")
}

func TestUpdateTaskReopenTripsQuota(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	addActiveTasks(t, taskStore, owner.ID, MaxActiveTasks)

	done, err := domain.NewTask(owner.ID, "Finished", "", "", domain.StatusDone)
	require.NoError(t, err)
	taskStore.AddTask(done)

	// Reopening the done task would make it the sixth active task.
	newStatus := domain.StatusPending
	_, err = svc.Update(context.Background(), owner, done.ID, UpdateTaskInput{Status: &newStatus})

	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestUpdateTaskExcludesItselfFromQuota(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	taskStore.OwnerNames[owner.ID] = owner.Username
	addActiveTasks(t, taskStore, owner.ID, MaxActiveTasks-1)

	active, err := domain.NewTask(owner.ID, "At the limit", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(active)

	// The owner now has exactly MaxActiveTasks active tasks. Editing one of
	// them while keeping it active must not count the task against itself.
	newTitle := "Still at the limit"
	_, err = svc.Update(context.Background(), owner, active.ID, UpdateTaskInput{Title: &newTitle})

	assert.NoError(t, err)
}

func TestDeleteTask(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	task, err := domain.NewTask(owner.ID, "Short-lived", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)

	require.NoError(t, svc.Delete(context.Background(), owner, task.ID))
	assert.Empty(t, taskStore.Tasks)
}

func TestDeleteTaskForbiddenForNonOwner(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	owner := testUser("alice")
	stranger := testUser("bob")
	task, err := domain.NewTask(owner.ID, "Protected", "", "", "")
	require.NoError(t, err)
	taskStore.AddTask(task)

	err = svc.Delete(context.Background(), stranger, task.ID)

	require.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, taskStore.Tasks, 1)
}

func TestListTasksIsOwnerScoped(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	alice := testUser("alice")
	bob := testUser("bob")
	addActiveTasks(t, taskStore, alice.ID, 2)
	addActiveTasks(t, taskStore, bob.ID, 3)

	page, err := svc.List(context.Background(), alice, store.ListTasksParams{})

	require.NoError(t, err)
	assert.Equal(t, 2, page.Total, "the listing must only contain the actor's tasks")

	require.Len(t, taskStore.ListCalls, 1)
	assert.Equal(t, alice.ID, taskStore.ListCalls[0].OwnerID,
		"the owner filter is forced regardless of the supplied params")
}

func TestListTasksForcesOwnerFilter(t *testing.T) {
	taskStore := mocks.NewMockTaskStore()
	svc := newTestTaskService(taskStore, mocks.NewMockCommentStore())

	alice := testUser("alice")
	bob := testUser("bob")

	// A client asking for someone else's tasks still gets its own.
	_, err := svc.List(context.Background(), alice, store.ListTasksParams{OwnerID: bob.ID})

	require.NoError(t, err)
	require.Len(t, taskStore.ListCalls, 1)
	assert.Equal(t, alice.ID, taskStore.ListCalls[0].OwnerID)
}
