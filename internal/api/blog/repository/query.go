package blogRepository

const (
	queryCreateBlog = `
		INSERT INTO blogs (
			id,
			user_id,
			title,
			content,
			time_created,
			time_updated
		) VALUES (
			:id,
			:user_id,
			:title,
			:content,
			:time_created,
			:time_updated
		)
	`

	querySelectBlog = `
		SELECT
			id,
			user_id,
			title,
			content,
			time_created,
			time_updated
		FROM blogs
	`

	queryGetBlogByID = querySelectBlog + `
		WHERE id = :id
	`

	queryGetBlogsByUserID = querySelectBlog + `
		WHERE user_id = :user_id
		ORDER BY time_created DESC, id ASC
	`

	queryGetAllBlogs = querySelectBlog + `
		ORDER BY time_created DESC, id ASC
	`

	queryUpdateBlog = `
		UPDATE blogs
		SET
			title = :title,
			content = :content,
			time_updated = :time_updated
		WHERE id = :id
	`

	queryDeleteBlog = `
		DELETE FROM blogs
		WHERE id = :id
	`

	queryCountUser = `
		SELECT COUNT(*)
		FROM users
		WHERE id = :id
	`
)
