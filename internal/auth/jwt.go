package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chronicle-dev/chronicle/internal/types"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

var (
	jwtSecret string
	jwtTTL    = 24 * time.Hour
)

// Configure sets the signing secret and token lifetime. Must be called once
// at startup before any token is issued or verified.
func Configure(secret string, ttl time.Duration) {
	jwtSecret = secret
	if ttl > 0 {
		jwtTTL = ttl
	}
}

// Claims is the decoded identity a bearer token carries.
type Claims struct {
	UserID uint
	Role   types.Role
}

func GenerateJWT(userID uint, role types.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(jwtTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Claims{}, ErrTokenInvalid
	}

	userID, ok := mapClaims["user_id"].(float64)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}

	roleString, ok := mapClaims["role"].(string)
	if !ok || !types.Role(roleString).Valid() {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{UserID: uint(userID), Role: types.Role(roleString)}, nil
}
