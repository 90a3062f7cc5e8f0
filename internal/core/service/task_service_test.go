package service

import (
	"context"
	"testing"

	"github.com/basisdhar/mrmanager/internal/core/domain"
	"github.com/basisdhar/mrmanager/internal/core/ports"
)

func TestTaskService_Create_Defaults(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo)

	task, err := svc.Create(context.Background(), "project_1", "user_1", ports.TaskInput{
		Title:      "  write docs  ",
		AssignedTo: "user_2",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if task.Title != "write docs" {
		t.Fatalf("title not trimmed: %q", task.Title)
	}
	if task.Status != domain.TaskStatusTodo {
		t.Fatalf("status = %q, want %q", task.Status, domain.TaskStatusTodo)
	}
	if task.AssignedBy != "user_1" {
		t.Fatalf("assigner not recorded: %q", task.AssignedBy)
	}
	if task.Attachments == nil {
		t.Fatalf("attachments must default to an empty slice")
	}
}

func TestTaskService_Create_Invalid(t *testing.T) {
	svc := NewTaskService(newStubTaskRepo())

	if _, err := svc.Create(context.Background(), "project_1", "user_1", ports.TaskInput{Title: "  "}); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty title, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "project_1", "user_1", ports.TaskInput{
		Title: "x", Status: "blocked",
	}); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestTaskService_Update_Partial(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo)

	task, err := svc.Create(context.Background(), "project_1", "user_1", ports.TaskInput{
		Title:       "write docs",
		Description: "cover the API",
		AssignedTo:  "user_2",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Only the status changes; everything else is carried over.
	updated, err := svc.Update(context.Background(), "project_1", task.ID, ports.TaskInput{Status: "in_progress"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.TaskStatusInProgress {
		t.Fatalf("status = %q, want in_progress", updated.Status)
	}
	if updated.Title != "write docs" || updated.Description != "cover the API" || updated.AssignedTo != "user_2" {
		t.Fatalf("unchanged fields were modified: %+v", updated)
	}

	if _, err := svc.Update(context.Background(), "project_1", task.ID, ports.TaskInput{Status: "parked"}); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestTaskService_ProjectScoping(t *testing.T) {
	repo := newStubTaskRepo()
	svc := NewTaskService(repo)

	task, err := svc.Create(context.Background(), "project_1", "user_1", ports.TaskInput{Title: "write docs"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// A task is reachable only through its own project.
	if _, err := svc.Get(context.Background(), "project_2", task.ID); err != domain.ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound across projects, got %v", err)
	}
	if err := svc.Delete(context.Background(), "project_2", task.ID); err != domain.ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound across projects, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "project_1", task.ID); err != nil {
		t.Fatalf("get failed: %v", err)
	}
}
