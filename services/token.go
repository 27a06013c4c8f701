package services

import (
	"encoding/json"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"coworkly/errors"
)

// GetUserIDFromToken extracts the userId claim from the token issued by
// the auth service. Signature verification happens at the API gateway;
// here the payload is only decoded.
func GetUserIDFromToken(tokenString string) (string, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "Malformed token", nil)
	}

	payload, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "Cannot decode token", err)
	}

	claimsMap := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &claimsMap); err != nil {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "Cannot parse token", err)
	}

	userInfo, ok := claimsMap["userinfo"].(map[string]interface{})
	if !ok {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "No user info in token", nil)
	}

	userID, ok := userInfo["userId"].(string)
	if !ok || userID == "" {
		return "", errors.NewAppError(errors.ErrCodeInvalidToken, "No user id in token", nil)
	}

	return userID, nil
}
