package invitation

import (
	"time"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
)

type Venue struct {
	Name    string `json:"name"`
	Room    string `json:"room"`
	MapsURL string `json:"mapsUrl,omitempty"`
}

type Details struct {
	Event    string    `json:"event"`
	Honoree  string    `json:"honoree"`
	Program  string    `json:"program"`
	StartsAt time.Time `json:"startsAt"`
	Venue    Venue     `json:"venue"`
}

// ecuador has no DST, a fixed zone is enough
var guayaquil = time.FixedZone("America/Guayaquil", -5*60*60)

// Default returns the details printed on the invitation page.
func Default(mapsURL string) Details {
	return Details{
		Event:    rsvp.EventLabel,
		Honoree:  "Steven Sagnay",
		Program:  "Ingeniería en Biotecnología",
		StartsAt: time.Date(2026, time.February, 25, 12, 0, 0, 0, guayaquil),
		Venue: Venue{
			Name:    "Universidad ESPE",
			Room:    "Salón 2001",
			MapsURL: mapsURL,
		},
	}
}
