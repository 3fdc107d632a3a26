package constants

const (
	Producer = "producer"
	Consumer = "consumer"
)

// ValidRoles is the set of roles a user may register with.
var ValidRoles = []string{Producer, Consumer}

// IsValidRole returns true if role is one of the allowed values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
