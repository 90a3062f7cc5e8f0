package handler

type projectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

type addMemberRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"omitempty,oneof=admin member viewer"`
}

type updateMemberRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member viewer"`
}
