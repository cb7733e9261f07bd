package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"essenza-backend/internal/domain"
)

// runRecoveryHandler triggers one recovery cycle inline and returns the run
// summary. No request body is expected. Detection failure is the only fatal
// path and maps to 500.
func runRecoveryHandler(runner RecoveryRunner, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		runID := uuid.NewString()

		summary, err := runner.Run(c.Request.Context(), runID)
		if err != nil {
			logger.WithError(err).WithField("run_id", runID).Error("recovery run failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "runId": runID, "error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    summary.Success,
			"runId":      runID,
			"processed":  summary.Processed,
			"skipped":    summary.Skipped,
			"emailsSent": summary.EmailsSent,
			"errors":     summary.Errors,
		})
	}
}

// listAttemptsHandler returns the outreach audit trail for one cart session,
// oldest first. An uncontacted session yields an empty list, not a 404.
func listAttemptsHandler(attempts AttemptStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("session")

		trail, err := attempts.AttemptsBySession(c.Request.Context(), sessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
			return
		}
		if trail == nil {
			trail = []domain.RecoveryAttempt{}
		}

		c.JSON(http.StatusOK, gin.H{"session": sessionID, "attempts": trail})
	}
}
