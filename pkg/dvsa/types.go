package dvsa

import "time"

// Sentinels used when a field selector finds nothing on the page
const (
	DateNotFound         = "Date not found"
	TimeNotFound         = "Time not found"
	LocationNotFound     = "Location not found"
	NameNotFound         = "Name not found"
	AddressNotFound      = "Address not found"
	AvailabilityNotFound = "Availability not found"
)

// IdentifierKind selects which second form field receives the secondary identifier
type IdentifierKind int

const (
	// ApplicationReferenceNumber is the booking reference issued when the test was booked
	ApplicationReferenceNumber IdentifierKind = iota
	// TheoryPassNumber is the theory test pass certificate number
	TheoryPassNumber
)

// String returns a log-friendly name
func (k IdentifierKind) String() string {
	switch k {
	case TheoryPassNumber:
		return "theory_pass_number"
	default:
		return "application_reference_number"
	}
}

// Credentials identify the candidate on the login form
type Credentials struct {
	LicenceNumber       string
	SecondaryIdentifier string
	IdentifierKind      IdentifierKind
}

// TestSlot is one available practical test appointment
type TestSlot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
}

// TestCentreResult is one row of the test-centre search results
type TestCentreResult struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	Availability string `json:"availability"`
	HasTests     bool   `json:"hasTests"`
}

// CheckRequest is the validated input of one check
type CheckRequest struct {
	Credentials Credentials
	// Location is nil when no test-centre search should run
	Location *string
}

// CheckResult is everything extracted during one session
type CheckResult struct {
	Slots    []TestSlot
	Centres  []TestCentreResult
	Duration time.Duration
}
