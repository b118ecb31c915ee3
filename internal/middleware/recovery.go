package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nutriplan-service/internal/domain/dto"
	"github.com/guttosm/nutriplan-service/internal/i18n"
	"github.com/guttosm/nutriplan-service/internal/logger"
)

// Recovery turns a panic in a handler into a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-raised so net/http can drop the connection, and
// nothing is written when the client has already gone away.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			event := logger.FromContext(c.Request.Context()).Error().
				Interface("panic", rec).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path)

			if err, ok := rec.(error); ok && clientGone(err) {
				event.Msg("Client disconnected during response")
				c.Abort()
				return
			}

			event.Bytes("stack", debug.Stack()).Msg("Panic recovered")
			abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, i18n.ErrKeyInternalError)
		}()
		c.Next()
	}
}

func clientGone(err error) bool {
	var opErr *net.OpError
	if !errors.As(err, &opErr) {
		return false
	}
	var sysErr *os.SyscallError
	if errors.As(opErr, &sysErr) {
		return errors.Is(sysErr.Err, syscall.EPIPE) || errors.Is(sysErr.Err, syscall.ECONNRESET)
	}
	return false
}
