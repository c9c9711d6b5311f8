package models

import "time"

// Student represents a hostel resident stored in the students table.
// registration_id and personal_email are unique and case-normalized on
// the way in.
type Student struct {
	ID             string    `db:"id" json:"id"`
	RegistrationID string    `db:"registration_id" json:"registration_id"`
	Name           string    `db:"name" json:"name"`
	Course         string    `db:"course" json:"course"`
	Batch          string    `db:"batch" json:"batch"`
	PersonalEmail  string    `db:"personal_email" json:"personal_email"`
	PhoneNumber    string    `db:"phone_number" json:"phone_number"`
	HostelName     string    `db:"hostel_name" json:"hostel_name"`
	RoomNumber     string    `db:"room_number" json:"room_number"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterStudentRequest is the payload for student registration.
type RegisterStudentRequest struct {
	Name           string `json:"name" validate:"required"`
	RegistrationID string `json:"registration_id" validate:"required"`
	Course         string `json:"course" validate:"required,oneof=B.Tech M.Tech MCA MSc Phd"`
	Batch          string `json:"batch" validate:"required"`
	PersonalEmail  string `json:"personal_email" validate:"required,email"`
	PhoneNumber    string `json:"phone_number"`
	HostelName     string `json:"hostel_name" validate:"required,oneof=A B C D E F G H I J K L"`
	RoomNumber     string `json:"room_number" validate:"required"`
	Password       string `json:"password" validate:"required,min=6"`
}
