package auth

// UserStore checks a username/password pair against the authentication
// table.
type UserStore interface {
	Authenticate(username, password string) (bool, error)
}
