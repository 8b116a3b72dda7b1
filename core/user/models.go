package user

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
	RoleLecture = "lecture"
)

var AllRoles = []string{RoleAdmin, RoleStudent, RoleLecture}

// User is the identity the backend reports for a token.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form.
type Registration struct {
	Name                 string `json:"name" validate:"notblank"`
	Email                string `json:"email" validate:"notblank"`
	Role                 string `json:"role" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}
