package util

import (
	"errors"
	"time"

	"hr_recruit_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userContextKey = "user"

// Claims is the token payload issued by the identity service.
type Claims struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
	State       int      `json:"state"`
	jwt.RegisteredClaims
}

// CurrentUser converts the claims to the caller seen by services.
func (c *Claims) CurrentUser() *model.CurrentUser {
	perms := make([]model.Permission, 0, len(c.Permissions))
	for _, p := range c.Permissions {
		perms = append(perms, model.Permission(p))
	}
	return &model.CurrentUser{
		ID:          c.UserID,
		Permissions: perms,
		State:       model.UserState(c.State),
	}
}

// GenerateJWT mints a token for user. Used by scripts and tests; production
// tokens come from the identity service.
func GenerateJWT(user *model.CurrentUser, secret string, expiration time.Duration) (string, error) {
	perms := make([]string, 0, len(user.Permissions))
	for _, p := range user.Permissions {
		perms = append(perms, string(p))
	}

	claims := &Claims{
		UserID:      user.ID,
		Permissions: perms,
		State:       int(user.State),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserID == "" {
			return nil, errors.New("token has no user_id")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

func SetUserInContext(c *gin.Context, user *model.CurrentUser) {
	c.Set(userContextKey, user)
}

func GetUserFromContext(c *gin.Context) *model.CurrentUser {
	user, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	u, ok := user.(*model.CurrentUser)
	if !ok {
		return nil
	}
	return u
}
