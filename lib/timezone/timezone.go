package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// The portal renders every date and meeting time in campus-local time
// without an offset, so all wall-clock math has to happen in Buffalo's
// timezone no matter where this process runs.
func Now() time.Time {
	return time.Now().In(Location)
}
