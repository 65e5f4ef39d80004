package handlers

import (
	"errors"
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func authService(c *gin.Context) services.AuthService {
	o := currentOptions()
	return services.AuthService{Deps: deps(c), Secret: o.JWTSecret, TokenTTL: o.TokenTTL}
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req models.LoginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	session, err := authService(c).Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
			return
		}
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, session)
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	user, err := authService(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, user)
}
