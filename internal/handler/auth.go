package handler

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/filebridge/filebridge/internal/api"
	"github.com/filebridge/filebridge/internal/utils"
)

// AdminLogin checks the configured admin credentials and issues an access
// token, both as JSON and as the accessToken cookie for browser clients.
func (h *Handler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	userOk := subtle.ConstantTimeCompare([]byte(body.Username), []byte(h.cfg.Private.AdminUser)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(h.cfg.Private.AdminPassword), []byte(body.Password))
	if !userOk || passErr != nil {
		http.Error(w, "Incorrect username or password", http.StatusUnauthorized)
		return
	}

	token, err := h.jwt.NewToken(body.Username)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, api.LoginResponse{Token: token})
}
