package demoserver

type User struct {
	Id int64 `json:"id"`

	Username string `json:"username"`

	Email string `json:"email,omitempty"`

	// Accepted on writes only; responses never carry it.
	Password string `json:"password,omitempty"`
}
