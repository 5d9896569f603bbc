package handler

import (
	"net/http"

	"github.com/prn-tf/medtrack/internal/domain"
	"github.com/prn-tf/medtrack/internal/service"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := rt.accounts.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, session, err := rt.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: session})
}

func (rt *Router) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := rt.accounts.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (rt *Router) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := rt.accounts.ActivateWithToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type resetRequestBody struct {
	Email string `json:"email"`
}

func (rt *Router) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequestBody
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Always accepted: the response must not reveal whether the email
	// belongs to an account.
	if err := rt.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

type resetConfirmBody struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (rt *Router) handleResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmBody
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := rt.accounts.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, rt.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

type updateProfileRequest struct {
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

func (rt *Router) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := rt.accounts.UpdateProfile(r.Context(), userFrom(r.Context()).ID, service.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		writeError(w, rt.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
