package main

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"ecosaarthi/models"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/api/auth/signup", signupHandler)
	r.POST("/api/auth/login", loginHandler)
	r.POST("/api/auth/refresh", refreshHandler)
	r.POST("/api/auth/logout", logoutHandler)

	r.GET("/api/schemes", schemesHandler)
	r.GET("/api/economic-data", economicDataHandler)
	r.POST("/api/financial-advice", financialAdviceHandler)
	r.POST("/api/tax-advice", taxAdviceHandler)
	r.POST("/api/stock-data", stockDataHandler)
	r.POST("/api/crypto-data", cryptoDataHandler)

	r.POST("/api/calculators/retirement", retirementCalcHandler)
	r.POST("/api/calculators/emi", emiCalcHandler)
	r.POST("/api/calculators/inflation-impact", inflationCalcHandler)
	r.POST("/api/calculators/tax", taxCalcHandler)

	authGroup := r.Group("")
	authGroup.Use(authMiddleware())
	authGroup.GET("/api/user/profile", getProfileHandler)
	authGroup.PUT("/api/user/profile", updateProfileHandler)
	authGroup.POST("/api/user/upload-photo", uploadPhotoHandler)
	authGroup.GET("/api/jobs", jobsHandler)
	authGroup.POST("/api/ai/career-analysis", careerAnalysisHandler)

	// The chat channel authenticates inside the handshake so it can reject
	// before upgrading.
	r.GET("/ws/chat", chatHandler)

	r.Static("/uploads", uploadBaseDir())
}

// authMiddleware verifies the session credential and attaches identity to the
// request context. Expired and malformed credentials get the same 401 as a
// missing one; only the message differs.
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyToken(credentialFromRequest(c))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("currentRole", claims.CurrentRole)
		c.Next()
	}
}

// getUserFromContext fetches the authenticated user using the id set by
// authMiddleware.
func getUserFromContext(c *gin.Context) (*models.User, bool) {
	idVal, ok := c.Get("userID")
	if !ok {
		return nil, false
	}
	var user models.User
	if err := db.First(&user, idVal.(uint)).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// startSession issues the 1h cookie credential plus a rotating refresh token
// for a user. Shared by signup, login and refresh.
func startSession(c *gin.Context, user *models.User) (refresh string, ok bool) {
	token, err := issueToken(user.ID, user.CurrentRole, user.MonthlyIncome)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return "", false
	}
	refresh, err = createAndStoreRefreshToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return "", false
	}
	setSessionCookie(c, token)
	return refresh, true
}

// signupHandler creates the account and immediately starts a session; no
// separate login step is needed.
func signupHandler(c *gin.Context) {
	var req SignupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := RegisterUser(req)
	if err != nil {
		if err == errDuplicateEmail {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	refresh, ok := startSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "refresh_token": refresh})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	refresh, ok := startSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "refresh_token": refresh})
}

// refreshHandler exchanges a refresh token for a fresh session and rotates the
// refresh token.
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var user models.User
	if err := db.First(&user, rt.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	// rotate: revoke the used token before issuing the next
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	refresh, ok := startSession(c, &user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"refresh_token": refresh})
}

// logoutHandler revokes the refresh token and drops the session cookie.
func logoutHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken != "" {
		if rt, err := findRefreshTokenByRaw(req.RefreshToken); err == nil {
			rt.Revoked = true
			db.Save(rt)
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func getProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateProfileHandler applies field updates through a keyed Updates call so
// concurrent writers cannot lose each other's whole record.
func updateProfileHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	var req struct {
		FirstName     string `json:"firstName" binding:"required"`
		LastName      string `json:"lastName" binding:"required"`
		Phone         string `json:"phone" binding:"required"`
		CurrentRole   string `json:"currentRole" binding:"required"`
		MonthlyIncome string `json:"monthlyIncome" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	income, err := parseIncome(req.MonthlyIncome)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := lookupRole(req.CurrentRole); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	updates := map[string]any{
		"first_name":     strings.TrimSpace(req.FirstName),
		"last_name":      strings.TrimSpace(req.LastName),
		"phone":          strings.TrimSpace(req.Phone),
		"current_role":   req.CurrentRole,
		"monthly_income": income,
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully."})
}

const maxPhotoBytes = 5 * 1024 * 1024

// uploadPhotoHandler accepts a multipart profile photo, normalizes it to a
// bounded JPEG and stores the reference on the user.
func uploadPhotoHandler(c *gin.Context) {
	user, ok := getUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	file, err := c.FormFile("profilePhoto")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	if file.Size > maxPhotoBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large (max 5MB)"})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "open upload failed"})
		return
	}
	defer src.Close()
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
		return
	}
	// Avatars never need more than 512px on the long edge.
	img = imaging.Fit(img, 512, 512, imaging.Lanczos)

	name := uuid.NewString() + ".jpg"
	dir := filepath.Join(uploadBaseDir(), "avatars")
	if err := ensureDir(dir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "mkdir failed"})
		return
	}
	if err := imaging.Save(img, filepath.Join(dir, name), imaging.JPEGQuality(85)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	photoURL := "/uploads/avatars/" + name
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("photo_path", photoURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photoUrl": photoURL, "message": "Photo updated."})
}
