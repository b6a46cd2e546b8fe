package enums

// ActivityAction names an auditable event written to the activity log.
type ActivityAction string

const (
	ActivityUserLogin            ActivityAction = "USER_LOGIN"
	ActivityUserLogout           ActivityAction = "USER_LOGOUT"
	ActivityUserCreated          ActivityAction = "USER_CREATED"
	ActivityUserDeleted          ActivityAction = "USER_DELETED"
	ActivityReservationCreated   ActivityAction = "RESERVATION_CREATED"
	ActivityReservationCancelled ActivityAction = "RESERVATION_CANCELLED"
	ActivitySessionStarted       ActivityAction = "SESSION_STARTED"
	ActivityCheckOut             ActivityAction = "CHECK_OUT"
	ActivityPaymentProcessed     ActivityAction = "PAYMENT_PROCESSED"
	ActivitySpotStatusUpdated    ActivityAction = "SPOT_STATUS_UPDATED"
)

func (a ActivityAction) String() string {
	return string(a)
}
