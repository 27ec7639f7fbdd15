package repositories

import (
	"homecare_client/internal/models"
)

// Resource descriptors of the backend collections used by the app.
var (
	AccountResource = Resource[models.Account]{
		Name: "accounts",
		ForeignKeys: map[string]func(models.Account) int64{
			"roleID": func(a models.Account) int64 { return a.RoleID },
		},
	}

	RoleResource = Resource[models.Role]{Name: "roles"}

	CareProfileResource = Resource[models.CareProfile]{
		Name: "careprofiles",
		ForeignKeys: map[string]func(models.CareProfile) int64{
			"accountID":    func(p models.CareProfile) int64 { return p.AccountID },
			"zoneDetailID": func(p models.CareProfile) int64 { return p.ZoneDetailID },
		},
	}

	RelativeResource = Resource[models.Relative]{
		Name: "relatives",
		ForeignKeys: map[string]func(models.Relative) int64{
			"careProfileID": func(r models.Relative) int64 { return r.CareProfileID },
		},
	}

	ServiceTypeResource = Resource[models.ServiceType]{Name: "servicetypes"}

	ZoneDetailResource = Resource[models.ZoneDetail]{
		Name: "zonedetails",
		ForeignKeys: map[string]func(models.ZoneDetail) int64{
			"zoneID": func(z models.ZoneDetail) int64 { return z.ZoneID },
		},
	}

	NursingSpecialistResource = Resource[models.NursingSpecialist]{
		Name: "nursingspecialists",
		ForeignKeys: map[string]func(models.NursingSpecialist) int64{
			"accountID": func(n models.NursingSpecialist) int64 { return n.AccountID },
			"zoneID":    func(n models.NursingSpecialist) int64 { return n.ZoneID },
		},
	}

	BookingResource = Resource[models.Booking]{
		Name: "Booking",
		ForeignKeys: map[string]func(models.Booking) int64{
			"careProfileID": func(b models.Booking) int64 { return b.CareProfileID },
		},
	}

	CustomizePackageResource = Resource[models.CustomizePackage]{
		Name: "CustomizePackage",
		ForeignKeys: map[string]func(models.CustomizePackage) int64{
			"bookingID": func(p models.CustomizePackage) int64 { return p.BookingID },
			"serviceID": func(p models.CustomizePackage) int64 { return p.ServiceID },
		},
	}

	CustomizeTaskResource = Resource[models.CustomizeTask]{
		Name: "CustomizeTask",
		ForeignKeys: map[string]func(models.CustomizeTask) int64{
			"bookingID":          func(t models.CustomizeTask) int64 { return t.BookingID },
			"customizePackageID": func(t models.CustomizeTask) int64 { return t.CustomizePackageID },
			"nursingID": func(t models.CustomizeTask) int64 {
				if t.NursingID == nil {
					return 0
				}
				return *t.NursingID
			},
		},
	}

	InvoiceResource = Resource[models.Invoice]{
		Name:       "Invoice",
		CreatePath: "/api/Invoice",
		ForeignKeys: map[string]func(models.Invoice) int64{
			"bookingID": func(i models.Invoice) int64 { return i.BookingID },
		},
	}

	WalletResource = Resource[models.Wallet]{
		Name: "wallets",
		ForeignKeys: map[string]func(models.Wallet) int64{
			"accountID": func(w models.Wallet) int64 { return w.AccountID },
		},
	}

	TransactionHistoryResource = Resource[models.TransactionHistory]{
		Name: "TransactionHistory",
		ForeignKeys: map[string]func(models.TransactionHistory) int64{
			"walletID": func(t models.TransactionHistory) int64 { return t.WalletID },
		},
	}

	NotificationResource = Resource[models.Notification]{
		Name: "Notification",
		ForeignKeys: map[string]func(models.Notification) int64{
			"accountID": func(n models.Notification) int64 { return n.AccountID },
		},
		FilterEndpoints: map[string]string{
			"accountID": "/api/Notification/GetNotificationsByAccount/%d",
		},
	}
)
