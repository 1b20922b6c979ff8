package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantTxRunner opens a database transaction bound to one tenant. The
// persistence unit of work implements it by setting the Postgres row
// level security GUC right after BEGIN.
type TenantTxRunner interface {
	RunAs(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context) error) error
}

// errRequestFailed aborts the transaction when the handler chain
// answered with an error status. The response is already written at
// that point; the sentinel only forces the rollback.
var errRequestFailed = errors.New("request failed, rolling back")

// TenantTransaction wraps the rest of the handler chain in a
// tenant-bound database transaction. Every repository call downstream
// picks the transaction up from the request context, so the RLS GUC
// set at BEGIN covers all of them. Requests that resolved no tenant
// (public paths, the WebSocket handshake) pass through untouched; the
// handlers on those paths open their own transactions.
func TenantTransaction(runner TenantTxRunner, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, err := GetTenantUUID(c)
		if err != nil || tenantID == uuid.Nil {
			c.Next()
			return
		}

		err = runner.RunAs(c.Request.Context(), tenantID, func(ctx context.Context) error {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			if c.Writer.Status() >= http.StatusBadRequest {
				return errRequestFailed
			}
			return nil
		})
		if err != nil && !errors.Is(err, errRequestFailed) {
			log.Error("Request transaction failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			if !c.Writer.Written() {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Request could not be completed",
					},
				})
			}
		}
	}
}
