package ports

import "time"

// Clock supplies the current instant to the core. Services never call
// time.Now directly so tests can pin time.
type Clock interface {
	Now() time.Time
}
