package http

import (
	"errors"
	"net/http"

	"academy-manager/backend/internal/domain/analytics"
	"academy-manager/backend/internal/domain/booking"
	"academy-manager/backend/internal/domain/session"
	"academy-manager/backend/internal/httpjson"
)

func fail(w http.ResponseWriter, status int, code, msg string) {
	httpjson.Error(w, status, code, msg)
}

func mapSessionError(err error) (int, string) {
	switch {
	case session.IsErrBadRequest(err):
		return http.StatusBadRequest, "BAD_REQUEST"
	case session.IsErrUnauthorized(err):
		return http.StatusForbidden, "FORBIDDEN"
	case session.IsErrNotFound(err):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case session.IsErrConflict(err):
		return http.StatusConflict, "SESSION_STATUS_CONFLICT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func mapBookingError(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrBadRequest):
		return http.StatusBadRequest, "BAD_REQUEST"
	case errors.Is(err, booking.ErrUnauthorized):
		return http.StatusForbidden, "UNAUTHORIZED"
	case errors.Is(err, booking.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, booking.ErrBookingNotFound):
		return http.StatusNotFound, "BOOKING_NOT_FOUND"
	case errors.Is(err, booking.ErrSessionNotBookable):
		return http.StatusConflict, "SESSION_NOT_BOOKABLE"
	case errors.Is(err, booking.ErrAlreadyBooked):
		return http.StatusConflict, "ALREADY_BOOKED"
	case errors.Is(err, booking.ErrSessionFull):
		return http.StatusConflict, "SESSION_FULL"
	case errors.Is(err, booking.ErrAlreadyCheckedIn):
		return http.StatusConflict, "ALREADY_CHECKED_IN"
	case errors.Is(err, booking.ErrBookingCancelled):
		return http.StatusConflict, "BOOKING_CANCELLED"
	case errors.Is(err, booking.ErrNotCancellable):
		return http.StatusConflict, "NOT_CANCELLABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func mapAnalyticsError(err error) (int, string) {
	switch {
	case analytics.IsErrBadRequest(err):
		return http.StatusBadRequest, "BAD_REQUEST"
	case analytics.IsErrForbidden(err):
		return http.StatusForbidden, "FORBIDDEN"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
