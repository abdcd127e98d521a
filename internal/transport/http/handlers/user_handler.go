package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/vedran77/accounts/internal/domain"
	"github.com/vedran77/accounts/internal/service"
	"github.com/vedran77/accounts/internal/transport/http/response"
	"github.com/vedran77/accounts/pkg/validator"
)

type AccountService interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.AuthResult, error)
	Login(ctx context.Context, input service.LoginInput) (*service.AuthResult, error)
	ListUsers(ctx context.Context) ([]domain.UserDetails, error)
	GetUser(ctx context.Context, id string) (*domain.UserDetails, error)
	UpdateUser(ctx context.Context, id string, input service.UpdateInput) (*domain.UserDetails, error)
	DeleteUser(ctx context.Context, id string) error
	ChangePassword(ctx context.Context, id string, input service.ChangePasswordInput) error
}

type UserHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

func NewUserHandler(accounts AccountService, logger *zap.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, logger: logger}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decode(w, r, &input) {
		return
	}

	if errs := validator.ValidateRegister(input.Name, input.UserName, input.Email, input.Password); errs.HasErrors() {
		response.Error(w, http.StatusBadRequest, errs.Error())
		return
	}

	result, err := h.accounts.Register(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, "register", err)
		return
	}

	response.JSON(w, http.StatusCreated, response.Body{
		Success: true,
		Message: "User registered successfully",
		User:    result.User,
		Token:   result.Token,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decode(w, r, &input) {
		return
	}

	if errs := validator.ValidateLogin(input.LoginCred, input.Password); errs.HasErrors() {
		response.Error(w, http.StatusBadRequest, errs.Error())
		return
	}

	result, err := h.accounts.Login(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, "login", err)
		return
	}

	response.JSON(w, http.StatusOK, response.Body{
		Success: true,
		Message: "Logged in successfully",
		User:    result.User,
		Token:   result.Token,
	})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.writeServiceError(w, "list users", err)
		return
	}

	if users == nil {
		users = []domain.UserDetails{}
	}
	count := len(users)

	response.JSON(w, http.StatusOK, response.Body{Success: true, Count: &count, Data: users})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, "get user", err)
		return
	}

	response.JSON(w, http.StatusOK, response.Body{Success: true, Data: user})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateInput
	if !decode(w, r, &input) {
		return
	}

	if errs := validator.ValidateUpdate(input.Email); errs.HasErrors() {
		response.Error(w, http.StatusBadRequest, errs.Error())
		return
	}

	user, err := h.accounts.UpdateUser(r.Context(), r.PathValue("id"), input)
	if err != nil {
		h.writeServiceError(w, "update user", err)
		return
	}

	response.JSON(w, http.StatusOK, response.Body{Success: true, Data: user})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		h.writeServiceError(w, "delete user", err)
		return
	}

	response.JSON(w, http.StatusOK, response.Body{Success: true, Message: "User deleted successfully"})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input service.ChangePasswordInput
	if !decode(w, r, &input) {
		return
	}

	if errs := validator.ValidateChangePassword(input.CurrentPassword, input.NewPassword); errs.HasErrors() {
		response.Error(w, http.StatusBadRequest, errs.Error())
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), r.PathValue("id"), input); err != nil {
		h.writeServiceError(w, "change password", err)
		return
	}

	response.JSON(w, http.StatusOK, response.Body{Success: true, Message: "Password changed successfully"})
}

// writeServiceError answers with the message of a known service error. Anything
// else is logged and hidden behind a generic 500.
func (h *UserHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	kind := service.KindOf(err)
	if kind == service.KindInternal {
		h.logger.Error(op, zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	response.Error(w, kind.Status(), err.Error())
}

const maxBodyBytes = 1 << 20

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
