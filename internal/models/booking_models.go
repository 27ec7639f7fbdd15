package models

// Booking statuses as stored by the backend.
const (
	BookingStatusPending     = "pending"
	BookingStatusPaid        = "paid"
	BookingStatusCompleted   = "completed"
	BookingStatusCancelled   = "cancelled"
	BookingStatusIsScheduled = "isScheduled"
)

// IsValidBookingStatus checks if the provided status string is a known booking status.
func IsValidBookingStatus(status string) bool {
	switch status {
	case BookingStatusPending,
		BookingStatusPaid,
		BookingStatusCompleted,
		BookingStatusCancelled,
		BookingStatusIsScheduled:
		return true
	default:
		return false
	}
}

// Booking is a scheduled home-care appointment for one care profile.
type Booking struct {
	BookingID     int64    `json:"bookingID"`
	CareProfileID int64    `json:"careProfileID"`
	AccountID     int64    `json:"accountID,omitempty"`
	Amount        float64  `json:"amount"`
	Workdate      string   `json:"workdate"`
	Status        string   `json:"status"`
	Extra         *float64 `json:"extra,omitempty"` // surcharge, percent
	IsSchedule    bool     `json:"isSchedule,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}

// CustomizePackage is one ordered service line of a booking.
type CustomizePackage struct {
	CustomizePackageID int64   `json:"customizePackageID"`
	BookingID          int64   `json:"bookingID"`
	ServiceID          int64   `json:"serviceID"`
	Name               string  `json:"name,omitempty"`
	Price              float64 `json:"price"`
	Quantity           int     `json:"quantity"`
	Discount           float64 `json:"discount,omitempty"`
	Total              float64 `json:"total"`
	Status             string  `json:"status,omitempty"`
}

// CustomizeTask is a unit of work inside a package, assignable to a nurse.
type CustomizeTask struct {
	CustomizeTaskID    int64  `json:"customizeTaskID"`
	BookingID          int64  `json:"bookingID"`
	CustomizePackageID int64  `json:"customizePackageID"`
	ServiceID          int64  `json:"serviceID"`
	NursingID          *int64 `json:"nursingID"`
	RelativeID         *int64 `json:"relativeID,omitempty"`
	TaskOrder          int    `json:"taskOrder"`
	Description        string `json:"description,omitempty"`
	Status             string `json:"status,omitempty"`
}

// AssignedTo reports whether the task is assigned to the given nurse.
func (t CustomizeTask) AssignedTo(nursingID int64) bool {
	return t.NursingID != nil && *t.NursingID == nursingID
}

// ServiceType is a bookable service from the catalogue.
type ServiceType struct {
	ServiceID   int64   `json:"serviceID"`
	ServiceName string  `json:"serviceName"`
	Major       string  `json:"major"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
	Discount    float64 `json:"discount,omitempty"`
	Description string  `json:"description,omitempty"`
	IsPackage   bool    `json:"isPackage"`
	Status      string  `json:"status,omitempty"`
}
