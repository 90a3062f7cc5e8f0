package handler

import "github.com/basisdhar/mrmanager/internal/core/domain"

type taskRequest struct {
	Title       string              `json:"title" validate:"required,min=1,max=200"`
	Description string              `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  string              `json:"assignedTo"`
	Status      string              `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Attachments []domain.Attachment `json:"attachments"`
}

type taskUpdateRequest struct {
	Title       string              `json:"title" validate:"omitempty,min=1,max=200"`
	Description string              `json:"description" validate:"omitempty,max=2000"`
	AssignedTo  string              `json:"assignedTo"`
	Status      string              `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Attachments []domain.Attachment `json:"attachments"`
}
