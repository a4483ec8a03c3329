package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSnapshotStored records a prediction snapshot write. A later write for the
// same date replaces the earlier one.
func (al *AuditLogger) LogSnapshotStored(snapshotID, date, backend string, recommendations int, generatedAt time.Time) {
	al.WithFields(logrus.Fields{
		"snapshot_id":     snapshotID,
		"snapshot_date":   date,
		"backend":         backend,
		"recommendations": recommendations,
		"generated_at":    generatedAt.Unix(),
	}).Info("Prediction snapshot stored")
}

// LogPolicyOverride records a risk policy or threshold value differing from its default.
func (al *AuditLogger) LogPolicyOverride(parameterName string, defaultValue, newValue interface{}, source string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"default_value":  defaultValue,
		"new_value":      newValue,
		"source":         source,
	}).Info("Policy parameter overridden")
}

// LogSnapshotFailure records a failed scheduled snapshot.
func (al *AuditLogger) LogSnapshotFailure(date string, err error) {
	al.WithFields(logrus.Fields{
		"snapshot_date": date,
		"error":         err.Error(),
	}).Error("Prediction snapshot failed")
}
