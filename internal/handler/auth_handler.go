package handler

import (
	"net/http"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/auth"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	cfg       *config.Config
	operators *repository.OperatorRepository
}

func NewAuthHandler(cfg *config.Config, operators *repository.OperatorRepository) *AuthHandler {
	return &AuthHandler{cfg: cfg, operators: operators}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a back-office operator and issues the JWT used by the
// admin repair endpoints.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	op, err := h.operators.GetByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateToken(&h.cfg.JWT, op.ID, op.Email, op.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "email": op.Email, "role": op.Role})
}
