package domain

const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Phone        *string
	Role         string
}

// Session is the authenticated identity threaded explicitly through every
// call that needs it. Nothing in this codebase reads identity from ambient
// state; the token adapter is the single collaborator that issues it.
type Session struct {
	UserID int64
	Role   string
}

func (s Session) IsOwner() bool { return s.Role == RoleOwner }
