package repositories

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"homecare_client/internal/apperrors"
	"homecare_client/internal/models"
	"homecare_client/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fiveBookings = `[
	{"bookingID": 1, "careProfileID": 10, "status": "pending"},
	{"bookingID": 2, "careProfileID": 20, "status": "paid"},
	{"bookingID": 3, "careProfileID": 10, "status": "completed"},
	{"bookingID": 4, "careProfileID": 30, "status": "pending"},
	{"bookingID": 5, "careProfileID": 40, "status": "cancelled"}
]`

func TestGetByForeignKey_PreservesOrder(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodGet, "/api/Booking/GetAll", 200, fiveBookings)
	repo := NewResourceRepository(sender, BookingResource, transport.NoRetry())

	got, err := repo.GetByForeignKey(context.Background(), "careProfileID", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].BookingID)
	assert.Equal(t, int64(3), got[1].BookingID)
}

func TestGetByForeignKey_NoMatchIsEmpty(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodGet, "/api/Booking/GetAll", 200, fiveBookings)
	repo := NewResourceRepository(sender, BookingResource, transport.NoRetry())

	got, err := repo.GetByForeignKey(context.Background(), "careProfileID", 99)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetByForeignKey_UnknownKey(t *testing.T) {
	repo := NewResourceRepository(newFakeSender(), BookingResource, transport.NoRetry())

	_, err := repo.GetByForeignKey(context.Background(), "nursingID", 1)
	assert.Error(t, err)
}

func TestFindBy_PredicateAndKey(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodGet, "/api/Booking/GetAll", 200, fiveBookings)
	repo := NewResourceRepository(sender, BookingResource, transport.NoRetry())

	pending, err := repo.FindBy(context.Background(), Filter[models.Booking]{
		Match: func(b models.Booking) bool { return b.Status == models.BookingStatusPending },
	})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	both, err := repo.FindBy(context.Background(), Filter[models.Booking]{
		Key:   "careProfileID",
		Value: 10,
		Match: func(b models.Booking) bool { return b.Status == models.BookingStatusCompleted },
	})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, int64(3), both[0].BookingID)
}

func TestFindBy_UsesServerEndpointWhenRegistered(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodGet, "/api/Notification/GetNotificationsByAccount/7", 200,
		`[{"notificationID": 1, "accountID": 7, "message": "a"}, {"notificationID": 2, "accountID": 7, "message": "b", "isRead": true}]`)
	repo := NewNotificationRepository(sender, transport.NoRetry())

	got, err := repo.ListByAccount(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 0, sender.count(http.MethodGet, "/api/Notification/GetAll"))
}

func TestFindBy_ServerEndpoint404IsEmpty(t *testing.T) {
	repo := NewNotificationRepository(newFakeSender(), transport.NoRetry())

	got, err := repo.ListByAccount(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_AcceptsWrappedArrays(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodGet, "/api/roles/GetAll", 200, `{"$id": "1", "$values": [{"roleID": 1, "roleName": "Admin"}]}`)
	sender.on(http.MethodGet, "/api/zonedetails/GetAll", 200, `{"data": [{"zoneDetailID": 3, "zoneID": 1, "name": "Quận 1"}]}`)

	roles, err := NewResourceRepository(sender, RoleResource, transport.NoRetry()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Admin", roles[0].RoleName)

	zones, err := NewResourceRepository(sender, ZoneDetailResource, transport.NoRetry()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Quận 1", zones[0].Name)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := NewResourceRepository(newFakeSender(), CareProfileResource, transport.NoRetry())

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByID_RetriesOfflineReads(t *testing.T) {
	sender := newFakeSender()
	sender.fail(http.MethodGet, "/api/careprofiles/get/1", &apperrors.NetworkError{Err: errors.New("down")})
	repo := NewResourceRepository(sender, CareProfileResource, transport.RetryPolicy{MaxRetries: 2, Delay: time.Millisecond})

	_, err := repo.GetByID(context.Background(), 1)
	assert.True(t, apperrors.IsOffline(err))
	assert.Equal(t, 3, sender.count(http.MethodGet, "/api/careprofiles/get/1"))
}

func TestWritesAreNotRetried(t *testing.T) {
	sender := newFakeSender()
	sender.fail(http.MethodPost, "/api/careprofiles/create", &apperrors.NetworkError{Err: errors.New("down")})
	repo := NewResourceRepository(sender, CareProfileResource, transport.RetryPolicy{MaxRetries: 2, Delay: time.Millisecond})

	_, err := repo.Create(context.Background(), models.CareProfile{ProfileName: "Ông Bảy"})
	assert.Error(t, err)
	assert.Equal(t, 1, sender.count(http.MethodPost, "/api/careprofiles/create"))
}

func TestUpdate_SendsJSONPatchContentType(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodPut, "/api/careprofiles/update/5", 200, `{"careProfileID": 5, "profileName": "Bà Tư"}`)
	repo := NewResourceRepository(sender, CareProfileResource, transport.NoRetry())

	updated, err := repo.Update(context.Background(), 5, models.CareProfile{CareProfileID: 5, ProfileName: "Bà Tư"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Bà Tư", updated.ProfileName)
	assert.Equal(t, transport.ContentTypeJSONPatch, sender.calls[0].ContentType)
}

func TestCreate_AcknowledgementWithoutRecord(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodPost, "/api/relatives/create", 200, `"Created successfully"`)
	repo := NewResourceRepository(sender, RelativeResource, transport.NoRetry())

	created, err := repo.Create(context.Background(), models.Relative{RelativeName: "Lan"})
	require.NoError(t, err)
	assert.Nil(t, created)
}

func TestCreate_ServerValidation(t *testing.T) {
	sender := newFakeSender()
	sender.on(http.MethodPost, "/api/relatives/create", 400, `{"message": "RelativeName is required"}`)
	repo := NewResourceRepository(sender, RelativeResource, transport.NoRetry())

	_, err := repo.Create(context.Background(), models.Relative{})
	var v *apperrors.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "RelativeName is required", v.Message)
}

func TestDelete_NotFound(t *testing.T) {
	repo := NewResourceRepository(newFakeSender(), RelativeResource, transport.NoRetry())

	err := repo.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
}
