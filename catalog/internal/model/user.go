package model

const (
	PermCanMarkReturned = "catalog.can_mark_returned"
	PermAddAuthor       = "catalog.add_author"
	PermChangeAuthor    = "catalog.change_author"
	PermDeleteAuthor    = "catalog.delete_author"
	PermAddBook         = "catalog.add_book"
	PermChangeBook      = "catalog.change_book"
	PermDeleteBook      = "catalog.delete_book"
)

// AllPermissions lists every permission the catalog checks.
var AllPermissions = []string{
	PermCanMarkReturned,
	PermAddAuthor,
	PermChangeAuthor,
	PermDeleteAuthor,
	PermAddBook,
	PermChangeBook,
	PermDeleteBook,
}

type User struct {
	ID           int      `json:"id" db:"id"`
	Username     string   `json:"username" db:"username"`
	PasswordHash string   `json:"-" db:"password_hash"`
	IsSuperuser  bool     `json:"isSuperuser" db:"is_superuser"`
	Permissions  []string `json:"permissions" db:"permissions"`
}

func (u User) String() string {
	return u.Username
}

// IsAuthenticated is false for the anonymous zero value.
func (u User) IsAuthenticated() bool {
	return u.ID != 0
}

func (u User) HasPerm(perm string) bool {
	if !u.IsAuthenticated() {
		return false
	}
	if u.IsSuperuser {
		return true
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
