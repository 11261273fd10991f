package userRepository

const (
	queryCreateUser = `
		INSERT INTO users (
			id,
			username,
			password_hash,
			role_id,
			time_created,
			time_updated
		) VALUES (
			:id,
			:username,
			:password_hash,
			:role_id,
			:time_created,
			:time_updated
		)
	`

	querySelectUser = `
		SELECT
			u.id,
			u.username,
			u.password_hash,
			u.role_id,
			r.name AS role_name,
			u.time_created,
			u.time_updated
		FROM users u
		JOIN user_roles r ON r.id = u.role_id
	`

	queryGetUserByID = querySelectUser + `
		WHERE u.id = :id
	`

	queryGetUserByUsername = querySelectUser + `
		WHERE u.username = :username
	`

	queryGetAllUsers = querySelectUser + `
		ORDER BY u.time_created DESC, u.id ASC
	`

	queryUpdateUser = `
		UPDATE users
		SET
			username = :username,
			password_hash = :password_hash,
			role_id = :role_id,
			time_updated = :time_updated
		WHERE id = :id
	`

	queryDeleteUser = `
		DELETE FROM users
		WHERE id = :id
	`
)
