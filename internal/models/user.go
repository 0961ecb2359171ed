package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Website   string    `json:"website,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

type UserUpdate struct {
	Name     *string
	Email    *string
	Username *string
	Phone    *string
	Website  *string
}

// UserWithPosts is a user together with every post referencing them.
type UserWithPosts struct {
	User
	Posts []Post `json:"posts"`
}
