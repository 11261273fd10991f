package roles

import (
	"net/http"

	"BlogPlatform/pkg/response"
)

var (
	ErrRoleNotFound   = response.NewMissing("Role not found")
	ErrRoleNameExists = response.NewDuplicate("Role name already exists")
	ErrRoleInUse      = response.NewError(http.StatusBadRequest, "Role is still assigned to users")
	ErrRoleProtected  = response.NewError(http.StatusBadRequest, "Built-in role cannot be renamed or deleted")
)
