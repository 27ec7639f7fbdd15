package repositories

import (
	"homecare_client/internal/models"
	"homecare_client/internal/transport"
)

// Registry holds one repository per backend collection.
type Registry struct {
	Auth                 AuthRepository
	Accounts             ResourceRepository[models.Account]
	Roles                ResourceRepository[models.Role]
	CareProfiles         ResourceRepository[models.CareProfile]
	Relatives            ResourceRepository[models.Relative]
	ServiceTypes         ResourceRepository[models.ServiceType]
	ZoneDetails          ResourceRepository[models.ZoneDetail]
	NursingSpecialists   ResourceRepository[models.NursingSpecialist]
	Bookings             BookingRepository
	CustomizePackages    ResourceRepository[models.CustomizePackage]
	CustomizeTasks       CustomizeTaskRepository
	Invoices             InvoiceRepository
	Wallets              WalletRepository
	TransactionHistories TransactionHistoryRepository
	Notifications        NotificationRepository
}

// NewRegistry wires every repository onto one sender with a shared read policy.
func NewRegistry(sender transport.Sender, reads transport.RetryPolicy) *Registry {
	return &Registry{
		Auth:                 NewAuthRepository(sender),
		Accounts:             NewResourceRepository(sender, AccountResource, reads),
		Roles:                NewResourceRepository(sender, RoleResource, reads),
		CareProfiles:         NewResourceRepository(sender, CareProfileResource, reads),
		Relatives:            NewResourceRepository(sender, RelativeResource, reads),
		ServiceTypes:         NewResourceRepository(sender, ServiceTypeResource, reads),
		ZoneDetails:          NewResourceRepository(sender, ZoneDetailResource, reads),
		NursingSpecialists:   NewResourceRepository(sender, NursingSpecialistResource, reads),
		Bookings:             NewBookingRepository(sender, reads),
		CustomizePackages:    NewResourceRepository(sender, CustomizePackageResource, reads),
		CustomizeTasks:       NewCustomizeTaskRepository(sender, reads),
		Invoices:             NewInvoiceRepository(sender, reads),
		Wallets:              NewWalletRepository(sender, reads),
		TransactionHistories: NewTransactionHistoryRepository(sender, reads),
		Notifications:        NewNotificationRepository(sender, reads),
	}
}
