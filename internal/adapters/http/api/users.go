package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/postboard/internal/app"
	"github.com/okian/postboard/internal/domain/model"
	"github.com/okian/postboard/pkg/logger"
)

// UserDependencies defines the interface for user operations.
type UserDependencies interface {
	CreateUser(ctx context.Context, userName string, displayName *string) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
	User(ctx context.Context, id uint) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id uint) (*model.User, error)
	UpdateUserSettings(ctx context.Context, id uint, patch model.SettingsPatch) (*model.UserSettings, error)
}

var errInvalidID = errors.New("id must be a positive integer")

// UsersHandler handles /users requests.
type UsersHandler struct {
	deps   UserDependencies
	logger logger.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies, l logger.Logger) *UsersHandler {
	return &UsersHandler{deps: deps, logger: l}
}

type deleteUserResponse struct {
	Message     string      `json:"message"`
	DeletedUser *model.User `json:"deletedUser"`
}

// HandleCreate handles POST /users requests.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_user"
	var req createUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	u, err := h.deps.CreateUser(r.Context(), *req.UserName, req.DisplayName)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// HandleList handles GET /users requests.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_users"
	users, err := h.deps.Users(r.Context())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGet handles GET /users/{id} requests.
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user"
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errInvalidID))
		return
	}
	u, err := h.deps.User(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleUpdate handles PATCH /users/{id} requests.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_user"
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errInvalidID))
		return
	}
	var req updateUserRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	u, err := h.deps.UpdateUser(r.Context(), id, req.patch())
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandleDelete handles DELETE /users/{id} requests.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_user"
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errInvalidID))
		return
	}
	u, err := h.deps.DeleteUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteUserResponse{Message: "User deleted successfully", DeletedUser: u})
}

// HandleUpdateSettings handles PATCH /users/{id}/settings requests.
func (h *UsersHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_user_settings"
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errInvalidID))
		return
	}
	var req updateSettingsRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	settings, err := h.deps.UpdateUserSettings(r.Context(), id, model.SettingsPatch{NotificationsOn: req.NotificationsOn})
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// fail translates service errors into HTTP responses.
func (h *UsersHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "username_taken", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrSettingsMissing):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
