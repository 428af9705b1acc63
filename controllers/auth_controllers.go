package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/AliAmzai/Tablr/middlewares"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/utils"
)

var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUserExists         = errors.New("User already exists")
)

type AuthController struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewAuthController(db *gorm.DB, bcryptCost int) *AuthController {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthController{DB: db, BcryptCost: bcryptCost}
}

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// Signup creates an account and signs the new user in.
func (ac *AuthController) Signup(c *gin.Context) {
	var req struct {
		Email    string  `json:"email" binding:"required,email"`
		Password string  `json:"password" binding:"required,min=6"`
		Name     string  `json:"name" binding:"required"`
		Phone    *string `json:"phone"`
	}
	if !bindJSON(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	if err := ac.DB.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		utils.RespondInternal(c, err)
		return
	}
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, ErrUserExists)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), ac.BcryptCost)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	user := models.User{
		Email:    email,
		Password: string(hashed),
		Name:     strings.TrimSpace(req.Name),
		Phone:    utils.NullIfEmpty(req.Phone),
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		// a concurrent signup can win between the count and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, ErrUserExists)
			return
		}
		utils.RespondInternal(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("New user registered: %s", user.Email)
	utils.RespondJSON(c, http.StatusCreated, authResponse{Message: "User created successfully", Token: token, User: &user})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	var user models.User
	err := ac.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		utils.RespondInternal(c, err)
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s", user.Email)
	utils.RespondJSON(c, http.StatusOK, authResponse{Message: "Login successful", Token: token, User: &user})
}

// Me returns the authenticated user.
func (ac *AuthController) Me(c *gin.Context) {
	var user models.User
	if err := ac.DB.First(&user, middlewares.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, errors.New("User not found"))
			return
		}
		utils.RespondInternal(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, user)
}

// Logout revokes the bearer token for the rest of its lifetime.
func (ac *AuthController) Logout(c *gin.Context) {
	var expiresAt time.Time
	if claims := middlewares.Claims(c); claims != nil && claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	utils.BlacklistToken(c.GetString(middlewares.ContextToken), expiresAt)
	utils.RespondMessage(c, http.StatusOK, "Logged out successfully")
}
