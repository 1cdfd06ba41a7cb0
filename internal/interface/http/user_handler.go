package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "users-go-pgsql/internal/application"
	"users-go-pgsql/internal/domain/entity"
	"users-go-pgsql/pkg/response"
	"users-go-pgsql/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// createUserRequest mirrors the wire schema for POST and PUT bodies. The
// binding tags reject structurally bad payloads early; the business rules
// (uniqueness, strict email pattern, check ordering) stay in the application layer.
type createUserRequest struct {
	Name     string  `json:"name" binding:"required,max=255"`
	Email    string  `json:"email" binding:"required,email,max=255"`
	Username string  `json:"username" binding:"required,max=150"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Website  *string `json:"website" binding:"omitempty,max=200"`
}

// patchUserRequest carries a partial update: only fields present in the JSON
// body end up non-nil and get applied.
type patchUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Username *string `json:"username" binding:"omitempty,max=150"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Website  *string `json:"website" binding:"omitempty,max=200"`
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "Invalid user ID", nil)
		return 0, false
	}
	return id, true
}

// fail translates domain errors to status codes: ValidationError is a client
// fault, a conflict StorageError means the unique index caught a race, and
// anything else is a server fault.
func (h *UserHandler) fail(c *gin.Context, err error) {
	var verr *entity.ValidationError
	if errors.As(err, &verr) {
		response.Error[any](c, http.StatusBadRequest, verr.Message, nil)
		return
	}
	var serr *entity.StorageError
	if errors.As(err, &serr) && serr.Conflict {
		response.Error[any](c, http.StatusConflict, "email or username already taken", nil)
		return
	}
	if h.Logger != nil {
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("user operation failed")
	}
	response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.GetAllUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "users", map[string]any{"count": len(users)})
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetUserByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dto := entity.CreateUserDTO{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Phone:    req.Phone,
		Website:  req.Website,
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u, "user created", nil)
}

// Update handles PUT: the full create-shaped body is required and every bound
// field is applied. Phone and website stay untouched when omitted, matching
// the partial-update contract underneath.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dto := entity.UpdateUserDTO{
		ID:       id,
		Name:     &req.Name,
		Email:    &req.Email,
		Username: &req.Username,
		Phone:    req.Phone,
		Website:  req.Website,
	}
	h.applyUpdate(c, dto)
}

// Patch handles PATCH: only the fields present in the body are applied.
func (h *UserHandler) Patch(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req patchUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	dto := entity.UpdateUserDTO{
		ID:       id,
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Phone:    req.Phone,
		Website:  req.Website,
	}
	h.applyUpdate(c, dto)
}

func (h *UserHandler) applyUpdate(c *gin.Context, dto entity.UpdateUserDTO) {
	u, err := h.Svc.UpdateUser(c.Request.Context(), dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.Svc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !deleted {
		response.Error[any](c, http.StatusNotFound, "User not found", nil)
		return
	}
	response.NoContent(c)
}
