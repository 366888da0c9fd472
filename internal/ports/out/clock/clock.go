package clock

import "time"

// Clock provides time to the application.
// Session token expiry, order timestamps and demo data dates all read it.
type Clock interface {
	Now() time.Time
}
