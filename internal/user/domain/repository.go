package domain

// UserRepository defines the user operations of the entity store
type UserRepository interface {
	ListUsers() []User
	FindUser(id int64) (User, error)
	FindUserByEmail(email string) (User, error)
	AddUser(n NewUser) (int64, error)
	UpdateUser(id int64, patch UserPatch) error
}
