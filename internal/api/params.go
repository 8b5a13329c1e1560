package api

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var ErrInvalidID = errors.New("invalid id")

// ParamID parses a positive integer path parameter.
func ParamID(c *gin.Context, name string) (int, error) {
	return parseID(c.Param(name))
}

// QueryID parses a positive integer query parameter.
func QueryID(c *gin.Context, name string) (int, error) {
	return parseID(c.Query(name))
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
