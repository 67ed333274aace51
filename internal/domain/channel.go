package domain

import "fmt"

// ConsultationType how the consultation is held
type ConsultationType string

const (
	ConsultationVisit ConsultationType = "visit"
	ConsultationVideo ConsultationType = "video"
)

// IsValid reports whether t is a known consultation type
func (t ConsultationType) IsValid() bool {
	return t == ConsultationVisit || t == ConsultationVideo
}

// OfficeLocation physical office for visit consultations
type OfficeLocation string

const (
	OfficeCheonan    OfficeLocation = "천안"
	OfficePyeongtaek OfficeLocation = "평택"
)

// Offices all offices accepting visits
var Offices = []OfficeLocation{OfficeCheonan, OfficePyeongtaek}

// IsValid reports whether o is a known office
func (o OfficeLocation) IsValid() bool {
	for _, office := range Offices {
		if o == office {
			return true
		}
	}
	return false
}

var (
	ErrInvalidConsultationType = NewError(ErrValidation, "domain: invalid consultation type")
	ErrOfficeRequired          = NewError(ErrValidation, "domain: office location is required for visit consultations")
	ErrOfficeNotAllowed        = NewError(ErrValidation, "domain: office location is not allowed for video consultations")
	ErrInvalidOffice           = NewError(ErrValidation, "domain: unknown office location")
)

// Channel the resource a booking occupies: one office for visits, the single video seat otherwise.
// Two bookings compete only when their channels are equal.
type Channel struct {
	Type   ConsultationType
	Office *OfficeLocation
}

// NewChannel validates the type/office combination
func NewChannel(t ConsultationType, office *OfficeLocation) (Channel, error) {
	switch t {
	case ConsultationVisit:
		if office == nil || *office == "" {
			return Channel{}, ErrOfficeRequired
		}
		if !office.IsValid() {
			return Channel{}, fmt.Errorf("%w: %q", ErrInvalidOffice, *office)
		}
		o := *office
		return Channel{Type: ConsultationVisit, Office: &o}, nil
	case ConsultationVideo:
		if office != nil && *office != "" {
			return Channel{}, ErrOfficeNotAllowed
		}
		return VideoChannel(), nil
	default:
		return Channel{}, fmt.Errorf("%w: %q", ErrInvalidConsultationType, t)
	}
}

// VisitChannel channel of an office
func VisitChannel(office OfficeLocation) Channel {
	return Channel{Type: ConsultationVisit, Office: &office}
}

// VideoChannel the video channel
func VideoChannel() Channel {
	return Channel{Type: ConsultationVideo}
}

// IsVideo reports whether the channel is the video seat
func (c Channel) IsVideo() bool {
	return c.Type == ConsultationVideo
}

// Key stable identity: "visit:천안", "visit:평택" or "video"
func (c Channel) Key() string {
	if c.Type == ConsultationVisit && c.Office != nil {
		return string(c.Type) + ":" + string(*c.Office)
	}
	return string(c.Type)
}

// Equal compares channels by identity
func (c Channel) Equal(other Channel) bool {
	return c.Key() == other.Key()
}

func (c Channel) String() string {
	return c.Key()
}
