package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// maxRequestBody caps the JSON bodies the API accepts. A weekly plan with
// its history stays well below it.
const maxRequestBody = 1 << 20

// Validator is implemented by request bodies that check their own fields.
type Validator interface {
	Validate() error
}

// decodeRequest decodes c's JSON body into a new T and runs T's Validate
// method when it has one. Bodies over maxRequestBody fail with
// *http.MaxBytesError.
func decodeRequest[T any](c *gin.Context) (*T, error) {
	if c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)
	}

	req := new(T)
	if err := c.ShouldBindJSON(req); err != nil {
		return nil, err
	}
	if v, ok := any(req).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return req, nil
}
