package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"aplicas/internal/acceso"
	"aplicas/internal/apierror"
	"aplicas/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ActorKey = "actor"

	// SessionCookie carries the access token for browser clients.
	SessionCookie = "aplicas_session"
)

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID  int    `json:"user_id"`
	Usuario string `json:"usuario"`
	Rol     string `json:"rol"`
	jwt.RegisteredClaims
}

// SesionValidator reloads the user behind a token. The auth service
// implements it with a short-lived cache.
type SesionValidator interface {
	ValidarSesion(ctx context.Context, usuarioID int) (*dto.Actor, error)
}

// JWTAuth accepts the token from the session cookie or a Bearer header,
// then checks that the user still exists and is active. The role used for
// authorization is the current one, not the one frozen in the token.
func JWTAuth(secret string, sesiones SesionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenDe(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.UserID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		actor, err := sesiones.ValidarSesion(c.Request.Context(), claims.UserID)
		if errors.Is(err, apierror.ErrProhibido) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Sesion invalida"))
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}

func tokenDe(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// RequireAccess rejects requests whose role cannot open ruta.
func RequireAccess(ruta string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil || !acceso.TieneAcceso(actor.Rol, ruta) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated user, or nil on public routes.
func GetActor(c *gin.Context) *dto.Actor {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*dto.Actor)
	return actor
}
