package service

import "errors"

var (
	// ErrInvalidCustomerID is returned when customer ID is empty.
	ErrInvalidCustomerID = errors.New("invalid customer id")

	// ErrInvalidDriverID is returned when driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRequestID is returned when request ID is empty.
	ErrInvalidRequestID = errors.New("invalid request id")

	// ErrInvalidOfferID is returned when offer ID is empty.
	ErrInvalidOfferID = errors.New("invalid offer id")

	// ErrInvalidPaymentID is returned when payment ID is empty.
	ErrInvalidPaymentID = errors.New("invalid payment id")

	// ErrInvalidPrice is returned when an offered price is not positive.
	ErrInvalidPrice = errors.New("offered price must be positive")

	// ErrInvalidPickupLocation is returned when pickup coordinates are invalid.
	ErrInvalidPickupLocation = errors.New("invalid pickup location")

	// ErrInvalidDropoffLocation is returned when dropoff coordinates are invalid.
	ErrInvalidDropoffLocation = errors.New("invalid dropoff location")

	// ErrInvalidVehicleType is returned when the vehicle type is not a
	// known value.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidPaymentMethodRef is returned when the payment method
	// reference is empty.
	ErrInvalidPaymentMethodRef = errors.New("invalid payment method reference")

	// ErrDriverNotApproved is returned when a non-approved driver tries
	// to submit an offer.
	ErrDriverNotApproved = errors.New("driver not approved")

	// ErrNotParticipant is returned when the caller is neither the
	// request's customer nor the accepted driver.
	ErrNotParticipant = errors.New("caller is not a participant of this request")

	// ErrDuplicateOffer is returned when a driver already holds an
	// active offer for the request.
	ErrDuplicateOffer = errors.New("driver already has an active offer for this request")

	// ErrRequestNotPending is returned when an operation requires a
	// pending request.
	ErrRequestNotPending = errors.New("request is not pending")

	// ErrRequestNotAccepted is returned when an operation requires an
	// accepted request.
	ErrRequestNotAccepted = errors.New("request is not accepted")

	// ErrRequestNotCancellable is returned when a request is already
	// completed or cancelled.
	ErrRequestNotCancellable = errors.New("request cannot be cancelled in current state")

	// ErrOfferNotPending is returned when an operation requires a
	// pending offer.
	ErrOfferNotPending = errors.New("offer is not pending")

	// ErrTransitionConflict is returned when a concurrent writer won a
	// contested transition. The caller must re-fetch and decide; no
	// automatic retry is performed.
	ErrTransitionConflict = errors.New("request was modified concurrently")
)
