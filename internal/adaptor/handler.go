package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hall-booking/internal/data/entity"
	"hall-booking/internal/usecase"
	"hall-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Hall    *HallHandler
	Booking *BookingHandler
	Staff   *StaffHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Hall:    NewHallHandler(service.Hall, service.Booking, log),
		Booking: NewBookingHandler(service.Booking, log),
		Staff:   NewStaffHandler(service.Booking, service.Hall, service.Dashboard, log),
	}
}

// actorFrom reads the principal AuthSession stored in the request context.
func actorFrom(r *http.Request) (entity.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return entity.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return entity.Actor{UserID: userID, Role: entity.UserRole(role)}, true
}

// decodeAndValidate decodes a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

// validationReason strips wrapping context so the client sees only the rule that failed.
func validationReason(err error) string {
	msg := err.Error()
	prefix := usecase.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	switch {
	case usecase.IsConflict(err):
		log.Info(operation+" failed - conflict", zap.Error(err))
		utils.ResponseConflict(w, validationReason(err))

	case errors.Is(err, usecase.ErrValidation):
		log.Info(operation+" failed - validation", zap.Error(err))
		utils.ResponseBadRequest(w, validationReason(err), nil)

	case errors.Is(err, usecase.ErrInvalidCapacity):
		log.Info(operation+" failed - invalid capacity", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), map[string]string{"capacity": err.Error()})

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "Staff access required")

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, "Username or email already registered")

	case errors.Is(err, usecase.ErrInvalidCredentials),
		errors.Is(err, usecase.ErrUnauthorized):
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, "Invalid credentials")

	case errors.Is(err, usecase.ErrAccountInactive):
		log.Warn(operation+" failed - account deactivated", zap.Error(err))
		utils.ResponseForbidden(w, "Account is deactivated")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
