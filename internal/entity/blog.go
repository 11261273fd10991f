package entity

import "time"

type Blog struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Title       string    `db:"title"`
	Content     string    `db:"content"`
	TimeCreated time.Time `db:"time_created"`
	TimeUpdated time.Time `db:"time_updated"`
}
