package httptransport

import (
	"net/http"

	"github.com/asaskevich/govalidator"

	"mediconnect/internal/account"
	"mediconnect/internal/rbac"
	"mediconnect/internal/transport/http/shared"
	dErrors "mediconnect/pkg/domain-errors"
)

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[registerRequest](w, r)
	if !ok {
		return
	}

	switch {
	case req.Name == "":
		shared.WriteError(w, r, dErrors.MissingField("name"))
		return
	case req.Email == "":
		shared.WriteError(w, r, dErrors.MissingField("email"))
		return
	case req.Password == "":
		shared.WriteError(w, r, dErrors.MissingField("password"))
		return
	case req.Role == "":
		shared.WriteError(w, r, dErrors.MissingField("role"))
		return
	}

	if !govalidator.StringLength(req.Email, "1", "255") || !govalidator.IsEmail(req.Email) {
		shared.WriteError(w, r, dErrors.Validation("email", "Invalid email format"))
		return
	}
	if !govalidator.StringLength(req.Password, "8", "128") {
		shared.WriteError(w, r, dErrors.Validation("password", "Password must be at least 8 characters long"))
		return
	}
	if !govalidator.StringLength(req.Name, "2", "255") {
		shared.WriteError(w, r, dErrors.Validation("name", "Name must be between 2 and 255 characters"))
		return
	}

	role, err := rbac.ParseRole(req.Role)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	profile, err := h.accounts.Register(r.Context(), account.RegisterInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           role,
		Specialization: req.Specialization,
	})
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, profile)
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := shared.Decode[loginRequest](w, r)
	if !ok {
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
	})
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context()); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
