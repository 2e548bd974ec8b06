package mapper

import userdomain "github.com/Apurer/go-gin-demo-server/internal/domains/users/domain"

// User represents the transport-level user payload.
type User struct {
	ID       int64
	Username string
	Email    string
	Password string
}

// ToDomainUser converts a transport user to its domain counterpart. An empty
// password leaves the hash unset so the service can keep the stored one.
func ToDomainUser(model User) (*userdomain.User, error) {
	user, err := userdomain.NewUser(model.ID, model.Username)
	if err != nil {
		return nil, err
	}
	if err := user.SetEmail(model.Email); err != nil {
		return nil, err
	}
	if model.Password != "" {
		if err := user.SetPassword(model.Password); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// FromDomainUser converts a domain user into a transport representation.
// Password material never leaves the domain.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
