package roleRepository

const (
	queryCreateRole = `
		INSERT INTO user_roles (
			id,
			name
		) VALUES (
			:id,
			:name
		)
	`

	queryGetRoleByID = `
		SELECT
			id,
			name
		FROM user_roles
		WHERE id = :id
	`

	queryGetRoleByName = `
		SELECT
			id,
			name
		FROM user_roles
		WHERE name = :name
	`

	queryGetAllRoles = `
		SELECT
			id,
			name
		FROM user_roles
		ORDER BY name ASC
	`

	queryUpdateRole = `
		UPDATE user_roles
		SET name = :name
		WHERE id = :id
	`

	queryDeleteRole = `
		DELETE FROM user_roles
		WHERE id = :id
	`

	queryCountUsersWithRole = `
		SELECT COUNT(*)
		FROM users
		WHERE role_id = :role_id
	`
)
