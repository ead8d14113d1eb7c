// Package middlewarectx contiene los middleware HTTP de la API: la
// comprobación del JWT, la variante opcional para rutas públicas y el
// limitador de peticiones.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/lromnav497/pardespue/internal/http/response"
	"github.com/lromnav497/pardespue/internal/lib/sl"
	"github.com/lromnav497/pardespue/internal/models"
)

// Key es el tipo de las claves de contexto de la petición.
type Key string

const (
	// User es la clave del nombre de usuario en el contexto.
	User Key = "username"
	// Role es la clave del rol de sitio en el contexto.
	Role Key = "role"
	// UserUID es la clave del UID del usuario en el contexto.
	UserUID Key = "user_uid"
)

// Service valida un JWT y devuelve el usuario que transporta.
type Service interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware exige un token válido en el encabezado Authorization y
// deja el usuario, el rol y el UID en el contexto de la petición.
func JWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("falta el token de autenticación"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("token inválido o caducado"))
				return
			}

			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTMiddleware acepta peticiones sin token. Si el encabezado
// trae un token válido deja la identidad en el contexto; un token
// inválido se trata como anónimo. Las rutas públicas de lectura lo usan
// para que la puerta de acceso conozca al solicitante cuando lo hay.
func OptionalJWTMiddleware(authService Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authService.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Warn("optional token rejected", sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, user.Username)
			ctx = context.WithValue(ctx, Role, user.Role)
			ctx = context.WithValue(ctx, UserUID, user.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UID devuelve el UID del usuario autenticado o cadena vacía.
func UID(ctx context.Context) string {
	uid, _ := ctx.Value(UserUID).(string)
	return uid
}

// SiteRole devuelve el rol de sitio del usuario autenticado o cadena vacía.
func SiteRole(ctx context.Context) string {
	role, _ := ctx.Value(Role).(string)
	return role
}
