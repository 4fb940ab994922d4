package core

import "fmt"

type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// String returns the identity in "Name <email>" format
func (identity Identity) String() string {
	return fmt.Sprintf("%s <%s>", identity.Name, identity.Email)
}
