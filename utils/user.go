package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// GetActiveUser pulls the token claims the auth middleware stored on
// the request context.
func GetActiveUser(ctx *gin.Context) (TokenObject, error) {
	value, exists := ctx.Get("user")
	if !exists {
		return TokenObject{}, fmt.Errorf("no authenticated user on this request")
	}

	user, ok := value.(TokenObject)
	if !ok {
		return TokenObject{}, fmt.Errorf("malformed user claims on this request")
	}

	return user, nil
}
