package models

// Role identifiers used by the backend.
const (
	RoleAdmin             int64 = 1
	RoleNursingSpecialist int64 = 2
	RoleManager           int64 = 3
	RoleCustomer          int64 = 4
)

// Account is a user of the app.
type Account struct {
	AccountID   int64  `json:"accountID"`
	RoleID      int64  `json:"roleID"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Status      string `json:"status"`
	CreateAt    string `json:"createAt,omitempty"`
}

// Role is a backend role record.
type Role struct {
	RoleID   int64  `json:"roleID"`
	RoleName string `json:"roleName"`
}

// NursingSpecialist is the staff profile attached to a nurse account.
type NursingSpecialist struct {
	NursingID   int64  `json:"nursingID"`
	AccountID   int64  `json:"accountID"`
	ZoneID      int64  `json:"zoneID"`
	FullName    string `json:"fullName,omitempty"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
	Experience  string `json:"experience,omitempty"`
	Slogan      string `json:"slogan,omitempty"`
	Major       string `json:"major"`
	Status      string `json:"status"`
}

// CareProfile is the record of the person receiving care.
type CareProfile struct {
	CareProfileID int64  `json:"careProfileID"`
	AccountID     int64  `json:"accountID"`
	ZoneDetailID  int64  `json:"zoneDetailID"`
	ProfileName   string `json:"profileName"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	PhoneNumber   string `json:"phoneNumber,omitempty"`
	Address       string `json:"address,omitempty"`
	Image         string `json:"image,omitempty"`
	Note          string `json:"note,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Relative is a family member attached to a care profile.
type Relative struct {
	RelativeID    int64  `json:"relativeID"`
	CareProfileID int64  `json:"careProfileID"`
	RelativeName  string `json:"relativeName"`
	DateOfBirth   string `json:"dateOfBirth,omitempty"`
	Gender        string `json:"gender,omitempty"`
	Status        string `json:"status,omitempty"`
}

// ZoneDetail is a service area.
type ZoneDetail struct {
	ZoneDetailID int64  `json:"zoneDetailID"`
	ZoneID       int64  `json:"zoneID"`
	Name         string `json:"name"`
	Note         string `json:"note,omitempty"`
}

// LoginRequest is the payload of POST /api/accounts/login.
type LoginRequest struct {
	EmailOrPhoneNumber string `json:"emailOrPhoneNumber" binding:"required"`
	Password           string `json:"password" binding:"required"`
}

// LoginResult is what the backend returns on a successful login.
type LoginResult struct {
	Account Account
	Token   string
}

// RegisterCustomerRequest is the payload of POST /api/accounts/register/customer.
type RegisterCustomerRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	AvatarURL   string `json:"avatarUrl"`
}
