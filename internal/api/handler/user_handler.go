package handler

import (
	"net/http"

	"voting/internal/api/util"
	"voting/internal/core/model"
	"voting/internal/core/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

type signupResponse struct {
	Data  *model.User `json:"data"`
	Token string      `json:"token"`
}

type loginRequest struct {
	AadharCardNumber model.NationalID `json:"aadharCardNumber"`
	Password         string           `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	User *model.User `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupInput
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	user, tok, err := h.userService.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusCreated, signupResponse{Data: user, Token: tok})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	tok, err := h.userService.Login(r.Context(), req.AadharCardNumber, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, tokenResponse{Token: tok})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, profileResponse{User: user})
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	util.JSONResponse(w, http.StatusOK, messageResponse{Message: "Password updated"})
}
