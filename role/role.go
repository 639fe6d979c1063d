package role

import "fmt"

// Role is the only authorization attribute a user carries.
type Role string

const (
	None  Role = ""
	Admin Role = "admin"
)

/*
* Parse the stored role value
* Unknown values are rejected instead of being treated as a plain user
 */
func Parse(s string) (Role, error) {
	switch Role(s) {
	case Admin:
		return Admin, nil
	case None:
		return None, nil
	default:
		return None, fmt.Errorf("role: unknown role %q", s)
	}
}

func (r Role) IsAdmin() bool {
	switch r {
	case Admin:
		return true
	case None:
		return false
	default:
		return false
	}
}

func (r Role) String() string {
	if r == None {
		return "unset"
	}
	return string(r)
}
