package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/filebridge/filebridge/internal/utils/jwt"
)

var (
	errNoToken       = errors.New("no access token")
	errInvalidClaims = errors.New("invalid token claims")
)

// Auth guards the admin surface. Credentials come in once through the login
// endpoint; afterwards requests carry an HS256 token in the accessToken
// cookie (browser) or a Bearer header (API clients).
type Auth struct {
	jwtService jwt.JwtService
}

func NewAuth(jwtService jwt.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// AdminOnly returns middleware that requires a valid admin token.
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := a.verifyAdmin(r); err != nil {
				http.Error(w, "Not authorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) verifyAdmin(r *http.Request) error {
	var tokenString string
	if cookie, err := r.Cookie("accessToken"); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return err
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return errInvalidClaims
	}
	isAdmin, ok := claims["admin"].(bool)
	if !ok || !isAdmin {
		return errInvalidClaims
	}
	return nil
}

// InternalOnly gates the bot-facing intake endpoints behind a shared key.
func InternalOnly(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Api-Key")
			if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				http.Error(w, "Not authorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
