package domain

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	ID         int64     `yaml:"id"`
	Username   string    `yaml:"username"`
	FirstName  string    `yaml:"first_name"`
	LastName   string    `yaml:"last_name"`
	Email      string    `yaml:"email"`
	DateJoined time.Time `yaml:"date_joined"`
}

// Passenger is the travel profile of exactly one User.
type Passenger struct {
	ID              int64     `yaml:"id"`
	UserID          int64     `yaml:"user_id"`
	PhotoPath       string    `yaml:"photo_path"`
	CellPhoneNumber string    `yaml:"cell_phone_number"`
	DateOfBirth     time.Time `yaml:"date_of_birth"`
	Gender          Gender    `yaml:"gender"`
}
