package dto

// UserOutput is the public view of a user. It never carries the password hash.
type UserOutput struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
}
