package response

import "github.com/gin-gonic/gin"

const (
	CodeBadRequest     = 40000
	CodeInternalServer = 50000
)

type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIError{
		Code:    code,
		Message: message,
	})
}
