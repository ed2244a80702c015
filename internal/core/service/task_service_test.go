package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabsphere/collabsphere-api/internal/core/domain"
	"github.com/collabsphere/collabsphere-api/internal/core/ports"
)

type stubTaskRepo struct {
	mu     sync.Mutex
	tasks  map[string]*domain.Task
	nextID int
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	created := cloneTask(task)
	created.ID = fmt.Sprintf("task_%d", r.nextID)
	r.tasks[created.ID] = cloneTask(created)
	return cloneTask(created), nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tasks[id]; ok {
		return cloneTask(t), nil
	}
	return nil, domain.ErrTaskNotFound
}

func (r *stubTaskRepo) ListForUser(_ context.Context, userID string) ([]*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if t.CreatedBy == userID || t.AssignedTo == userID {
			out = append(out, cloneTask(t))
		}
	}
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return nil, domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = cloneTask(task)
	return cloneTask(task), nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func newTestTaskService(t *testing.T) (*TaskService, *stubUserRepo, *stubTaskRepo) {
	t.Helper()
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	return NewTaskService(tasks, users, zerolog.Nop()), users, tasks
}

func TestTaskService_Create(t *testing.T) {
	svc, users, _ := newTestTaskService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")

	view, err := svc.Create(context.Background(), ports.CreateTaskInput{
		Title:      "Ship the release",
		Priority:   "high",
		AssignedTo: bob.ID,
		CreatedBy:  alice.ID,
		DueDate:    time.Now().Add(48 * time.Hour).UTC(),
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.Status != domain.TaskPending {
		t.Fatalf("expected pending status, got %s", view.Status)
	}
	if view.CreatedBy.Name != "Alice" {
		t.Fatalf("creator not enriched: %+v", view.CreatedBy)
	}
	if view.AssignedTo == nil || view.AssignedTo.Name != "Bob" {
		t.Fatalf("assignee not enriched: %+v", view.AssignedTo)
	}
}

func TestTaskService_Create_DefaultPriority(t *testing.T) {
	svc, users, _ := newTestTaskService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")

	view, err := svc.Create(context.Background(), ports.CreateTaskInput{
		Title:     "Untriaged work",
		CreatedBy: alice.ID,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.Priority != domain.PriorityMedium {
		t.Fatalf("expected medium priority, got %s", view.Priority)
	}
}

func TestTaskService_List_ScopedToUser(t *testing.T) {
	svc, users, _ := newTestTaskService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")
	carol := seedUser(t, users, "Carol", "carol@example.com")

	_, _ = svc.Create(context.Background(), ports.CreateTaskInput{Title: "by alice", CreatedBy: alice.ID})
	_, _ = svc.Create(context.Background(), ports.CreateTaskInput{Title: "for alice", CreatedBy: bob.ID, AssignedTo: alice.ID})
	_, _ = svc.Create(context.Background(), ports.CreateTaskInput{Title: "unrelated", CreatedBy: carol.ID})

	views, err := svc.List(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 tasks for alice, got %d", len(views))
	}
}

func TestTaskService_Update_Partial(t *testing.T) {
	svc, users, _ := newTestTaskService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")

	created, err := svc.Create(context.Background(), ports.CreateTaskInput{
		Title:       "Write docs",
		Description: "initial",
		CreatedBy:   alice.ID,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	status := "completed"
	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != domain.TaskCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
	if updated.Title != "Write docs" || updated.Description != "initial" {
		t.Fatalf("unspecified fields must be untouched: %+v", updated)
	}
}

func TestTaskService_Update_NotFound(t *testing.T) {
	svc, _, _ := newTestTaskService(t)

	title := "nope"
	if _, err := svc.Update(context.Background(), "task_404", ports.UpdateTaskInput{Title: &title}); err != domain.ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestTaskService_Delete_Ownership(t *testing.T) {
	svc, users, _ := newTestTaskService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")
	bob := seedUser(t, users, "Bob", "bob@example.com")

	created, err := svc.Create(context.Background(), ports.CreateTaskInput{Title: "Owned by alice", CreatedBy: alice.ID})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// non-owner, non-admin is rejected
	if err := svc.Delete(context.Background(), created.ID, bob.ID, domain.RoleTeamMember); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// owner succeeds
	if err := svc.Delete(context.Background(), created.ID, alice.ID, domain.RoleTeamMember); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	views, err := svc.List(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("deleted task still listed")
	}
}

func TestTaskService_Delete_AdminOverride(t *testing.T) {
	svc, users, _ := newTestTaskService(t)
	alice := seedUser(t, users, "Alice", "alice@example.com")
	admin := seedUser(t, users, "Root", "root@example.com")

	created, err := svc.Create(context.Background(), ports.CreateTaskInput{Title: "Owned by alice", CreatedBy: alice.ID})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID, admin.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}
