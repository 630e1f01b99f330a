package controller

import (
	"regexp"
	"time"

	"gamevault-backend/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type AuthController struct {
	DB        *gorm.DB
	JWTSecret string
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}
	if !regexp.MustCompile(`[A-Za-z]`).MatchString(password) {
		return false, "Password must contain at least one letter"
	}
	if !regexp.MustCompile(`[0-9]`).MatchString(password) {
		return false, "Password must contain at least one number"
	}
	return true, ""
}

func (ac *AuthController) signToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      float64(user.ID),
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(ac.JWTSecret))
}

func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Phone     string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	switch "" {
	case req.Username:
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: username"})
	case req.Email:
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: email"})
	case req.Password:
		return c.Status(400).JSON(fiber.Map{"error": "Missing required field: password"})
	}

	if !emailPattern.MatchString(req.Email) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid email format"})
	}
	if ok, msg := validatePassword(req.Password); !ok {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	var count int64
	ac.DB.Model(&model.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Username already exists"})
	}
	ac.DB.Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Email already exists"})
	}

	user := model.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to hash password"})
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user"})
	}

	token, err := ac.signToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to sign token"})
	}

	return c.Status(201).JSON(fiber.Map{
		"user":    user,
		"token":   token,
		"message": "Registration successful",
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	// username field also accepts the email address
	var user model.User
	err := ac.DB.Where("username = ? OR email = ?", req.Username, req.Username).First(&user).Error
	if err != nil || !user.CheckPassword(req.Password) {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid username or password"})
	}
	if !user.IsActive {
		return c.Status(401).JSON(fiber.Map{"error": "Account is deactivated"})
	}

	token, err := ac.signToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to sign token"})
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"token":   token,
		"message": "Login successful",
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var user model.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}
	return c.JSON(user)
}

func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	var user model.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return c.Status(400).JSON(fiber.Map{"error": "Current password is incorrect"})
	}
	if ok, msg := validatePassword(req.NewPassword); !ok {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to hash password"})
	}
	if err := ac.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update password"})
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}

func (ac *AuthController) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Phone     *string `json:"phone"`
		Email     *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}

	var user model.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil && *req.Email != user.Email {
		if !emailPattern.MatchString(*req.Email) {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid email format"})
		}
		var count int64
		ac.DB.Model(&model.User{}).Where("email = ? AND id != ?", *req.Email, user.ID).Count(&count)
		if count > 0 {
			return c.Status(400).JSON(fiber.Map{"error": "Email already exists"})
		}
		user.Email = *req.Email
	}

	if err := ac.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"message": "Profile updated successfully",
	})
}

func (ac *AuthController) Subscribe(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req struct {
		Plan string `json:"plan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Plan != "starter" && req.Plan != "pro" && req.Plan != "ultimate" {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid subscription plan"})
	}

	var user model.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	expires := time.Now().AddDate(0, 0, 30)
	user.SubscriptionPlan = &req.Plan
	user.SubscriptionExpires = &expires

	if err := ac.DB.Save(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to subscribe"})
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"message": "Successfully subscribed to " + req.Plan + " plan",
	})
}
