package models

// Student carries the minimum student identity this service reads.
type Student struct {
	ID       string `db:"id" json:"student_id"`
	FullName string `db:"full_name" json:"full_name"`
}
