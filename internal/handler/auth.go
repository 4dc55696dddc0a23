package handler

import (
	"errors"
	"net/http"
	"time"

	"sudhamrit-be/internal/admin"
	"sudhamrit-be/internal/auth"
	"sudhamrit-be/internal/logger"
	"sudhamrit-be/internal/user"
	"sudhamrit-be/internal/utils"

	"go.uber.org/zap"
)

type registerRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Phone    string `json:"phone" form:"phone"`
	Address  string `json:"address" form:"address"`
}

type adminRegisterRequest struct {
	Name       string `json:"name" form:"name" validate:"required"`
	Email      string `json:"email" form:"email" validate:"required,email"`
	Password   string `json:"password" form:"password" validate:"required,min=6"`
	InviteCode string `json:"invite_code" form:"invite_code"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type sessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Principal auth.Principal `json:"principal"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Register(r.Context(), user.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteEnvelope(w, http.StatusCreated, utils.LevelSuccess, "registration successful, please log in", u)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondSession(w, r, auth.Principal{
		Kind:  auth.KindCustomer,
		ID:    u.ID,
		Name:  u.Username,
		Email: u.Email,
	}, "logged in successfully")
}

func (h *Handler) AdminRegister(w http.ResponseWriter, r *http.Request) {
	var req adminRegisterRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.admins.Register(r.Context(), admin.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteEnvelope(w, http.StatusCreated, utils.LevelSuccess, "admin registered successfully", a)
}

func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.bind(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	a, err := h.admins.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondSession(w, r, auth.Principal{
		Kind:  auth.KindAdmin,
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
	}, "admin logged in successfully")
}

func (h *Handler) respondSession(w http.ResponseWriter, r *http.Request, p auth.Principal, message string) {
	token, expires, err := h.startSession(w, p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// A new login never inherits another principal's pending checkout.
	h.clearCookie(w, intentCookie)

	logger.FromCtx(r.Context()).Info("session started",
		zap.String("kind", string(p.Kind)),
		zap.Uint("id", p.ID),
	)
	utils.OK(w, message, sessionResponse{Token: token, ExpiresAt: expires, Principal: p})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearCookie(w, auth.AccessTokenCookie)
	h.clearCookie(w, intentCookie)
	utils.WriteEnvelope(w, http.StatusOK, utils.LevelInfo, "logged out", nil)
}

// Me returns the current principal after checking the account still exists.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.Warn(w, http.StatusUnauthorized, "not logged in")
		return
	}

	var err error
	switch p.Kind {
	case auth.KindCustomer:
		_, err = h.users.GetByID(r.Context(), p.ID)
	case auth.KindAdmin:
		_, err = h.admins.GetByID(r.Context(), p.ID)
	}
	if errors.Is(err, user.ErrUserNotFound) || errors.Is(err, admin.ErrAdminNotFound) {
		h.clearCookie(w, auth.AccessTokenCookie)
		utils.Warn(w, http.StatusUnauthorized, "account no longer exists, please log in again")
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.OK(w, "", p)
}
