package models

import "time"

// Admin represents hostel staff stored in the admins table. Each admin
// manages exactly one hostel; that hostel bounds everything they can see.
type Admin struct {
	ID            string    `db:"id" json:"id"`
	StaffID       string    `db:"staff_id" json:"staff_id"`
	Name          string    `db:"name" json:"name"`
	Designation   string    `db:"designation" json:"designation"`
	HostelName    string    `db:"hostel_name" json:"hostel_name"`
	PersonalEmail string    `db:"personal_email" json:"personal_email"`
	PhoneNumber   string    `db:"phone_number" json:"phone_number"`
	PasswordHash  string    `db:"password_hash" json:"-"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// RegisterAdminRequest is the payload for admin registration.
type RegisterAdminRequest struct {
	Name          string `json:"name" validate:"required"`
	StaffID       string `json:"staff_id" validate:"required"`
	Designation   string `json:"designation" validate:"required,oneof='chief warden' warden supervisor 'system admin'"`
	HostelName    string `json:"hostel_name" validate:"required,oneof=A B C D E F G H I J K L"`
	PersonalEmail string `json:"personal_email" validate:"required,email"`
	PhoneNumber   string `json:"phone_number" validate:"required"`
	Password      string `json:"password" validate:"required,min=6"`
}
