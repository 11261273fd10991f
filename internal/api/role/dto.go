package roles

type CreateRoleRequest struct {
	Name string `json:"name" validate:"required,trimmin=2,max=100"`
}

type UpdateRoleRequest struct {
	Name string `json:"name" validate:"required,trimmin=2,max=100"`
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}
