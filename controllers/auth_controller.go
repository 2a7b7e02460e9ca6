package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/consigliere/consigliere/config"
	"github.com/consigliere/consigliere/middleware"
	"github.com/consigliere/consigliere/models"
	"github.com/consigliere/consigliere/utils"
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// AuthController handles registration, login, and profile endpoints.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// getUserID extracts the authenticated user id set by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Register handles account creation with bcrypt hashing. The initial streak
// row is created alongside the user so later reads never special-case a
// missing row.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if !emailRe.MatchString(req.Email) {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid email address")
		return
	}
	if !usernameRe.MatchString(req.Username) {
		utils.Error(ctx, http.StatusBadRequest, 40003, "username must be 3-30 characters: letters, digits, underscore")
		return
	}
	if len(req.Password) < 6 || len(req.Password) > 100 {
		utils.Error(ctx, http.StatusBadRequest, 40004, "password must be 6-100 characters")
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "email already registered")
		return
	}
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40902, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		PagesGoal:    10,
		VideosGoal:   1,
	}
	err = a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Streak{UserID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40901, "email or username already registered")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to create account")
		return
	}

	utils.Created(ctx, user)
}

// Login authenticates by email and password and issues the credential. The
// token is usable for dependent calls the moment the response is received.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	var user models.User
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "incorrect email or password")
		return
	}

	duration := time.Duration(config.Get().TokenExpireMinutes) * time.Minute
	token, err := utils.GenerateToken(user.ID, user.Username, duration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
		utils.BlacklistToken(token, claims.ExpiresAt.Time)
	}
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	user, ok := a.currentUser(ctx)
	if !ok {
		return
	}
	utils.Success(ctx, user)
}

// UpdateGoals sets the user's daily targets. Bounds follow the product
// limits: pages 0-1000, videos 0-100.
func (a *AuthController) UpdateGoals(ctx *gin.Context) {
	type request struct {
		PagesGoal  *int `json:"pages_goal" binding:"required,min=0,max=1000"`
		VideosGoal *int `json:"videos_goal" binding:"required,min=0,max=100"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40005, "goals must be within allowed bounds")
		return
	}

	user, ok := a.currentUser(ctx)
	if !ok {
		return
	}

	user.PagesGoal = *req.PagesGoal
	user.VideosGoal = *req.VideosGoal
	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to update goals")
		return
	}
	utils.Success(ctx, user)
}

// UploadProfilePicture stores a new avatar under a random filename and
// replaces the previous one.
func (a *AuthController) UploadProfilePicture(ctx *gin.Context) {
	user, ok := a.currentUser(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40006, "missing file")
		return
	}

	cfg := config.Get()
	if file.Size > int64(cfg.MaxUploadSizeMB)<<20 {
		utils.Error(ctx, http.StatusBadRequest, 40007, "file too large")
		return
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		utils.Error(ctx, http.StatusBadRequest, 40008, "file must be an image")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	filename := uuid.NewString() + ext

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to store file")
		return
	}
	if err := ctx.SaveUploadedFile(file, filepath.Join(cfg.UploadDir, filename)); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to store file")
		return
	}

	old := user.ProfilePicture
	user.ProfilePicture = filename
	if err := a.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to update profile")
		return
	}
	if old != "" {
		_ = os.Remove(filepath.Join(cfg.UploadDir, old))
	}

	utils.Success(ctx, gin.H{
		"filename": filename,
		"url":      "/uploads/" + filename,
	})
}

// currentUser loads the authenticated user, writing the error response itself
// when the session or row is gone.
func (a *AuthController) currentUser(ctx *gin.Context) (models.User, bool) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return models.User{}, false
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusUnauthorized, 40111, "account no longer exists")
			return models.User{}, false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50006, "failed to load user")
		return models.User{}, false
	}
	return user, true
}
