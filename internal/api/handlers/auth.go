package handlers

import (
	"net/http"

	"github.com/fluffyriot/brandpulse/internal/authhelp"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Username and password are required",
		})
		return
	}

	user, ok := authhelp.Authenticate(h.Users, req.Username, req.Password)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Invalid username or password",
		})
		return
	}

	token, err := authhelp.CreateAccessToken(h.Config.JWTSecret, user.Username, user.Role, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create access token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user": gin.H{
			"username": user.Username,
			"role":     user.Role,
			"name":     user.Name,
		},
	})
}

func (h *Handler) MeHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"username": c.GetString("username"),
		"role":     c.GetString("role"),
	})
}

// RefreshHandler issues a fresh token to a caller whose current token
// is still valid. The auth middleware has already verified it.
func (h *Handler) RefreshHandler(c *gin.Context) {
	username := c.GetString("username")
	user, ok := h.Users[username]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "User no longer exists",
		})
		return
	}

	token, err := authhelp.CreateAccessToken(h.Config.JWTSecret, user.Username, user.Role, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create access token",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
