package location

import "time"

// Location is the narrow slice of the locations collaborator this core needs:
// the owner (for cancellation-policy lookup) and the IANA timezone name (all
// window math runs in local wall-clock time).
type Location struct {
	ID        string
	OwnerID   string
	Name      string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
