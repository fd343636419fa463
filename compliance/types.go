package compliance

import (
	"encoding/json"
	"time"
)

/*
====================================
CONSENT TYPES
====================================
*/

// ConsentType defines a public type used by goSession APIs.
//
// ConsentType instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ConsentType string

const (
	// ConsentNecessary is an exported constant or variable used by the session manager.
	ConsentNecessary ConsentType = "necessary"

	// ConsentFunctional is an exported constant or variable used by the session manager.
	ConsentFunctional ConsentType = "functional"

	// ConsentAnalytics is an exported constant or variable used by the session manager.
	ConsentAnalytics ConsentType = "analytics"

	// ConsentMarketing is an exported constant or variable used by the session manager.
	ConsentMarketing ConsentType = "marketing"

	// ConsentUnknown is the decode fallback for consent types this build does not know.
	ConsentUnknown ConsentType = "unknown"
)

// UnmarshalJSON decodes a consent type, mapping unrecognized values to
// [ConsentUnknown] instead of returning an error.
func (t *ConsentType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch ConsentType(raw) {
	case ConsentNecessary, ConsentFunctional, ConsentAnalytics, ConsentMarketing:
		*t = ConsentType(raw)
	default:
		*t = ConsentUnknown
	}
	return nil
}

// ConsentRecord defines a public type used by goSession APIs.
//
// ConsentRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ConsentRecord struct {
	Type      ConsentType `json:"type"`
	Granted   bool        `json:"granted"`
	Version   string      `json:"version,omitempty"`
	UpdatedAt time.Time   `json:"updated_at"`
}

/*
====================================
RETENTION TYPES
====================================
*/

// RetentionCategory defines a public type used by goSession APIs.
//
// RetentionCategory instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RetentionCategory string

const (
	// RetentionAuthLogs is an exported constant or variable used by the session manager.
	RetentionAuthLogs RetentionCategory = "auth_logs"

	// RetentionSessionData is an exported constant or variable used by the session manager.
	RetentionSessionData RetentionCategory = "session_data"

	// RetentionAuditTrail is an exported constant or variable used by the session manager.
	RetentionAuditTrail RetentionCategory = "audit_trail"

	// RetentionUserContent is an exported constant or variable used by the session manager.
	RetentionUserContent RetentionCategory = "user_content"

	// RetentionUnknown is the decode fallback for categories this build does not know.
	RetentionUnknown RetentionCategory = "unknown"
)

// UnmarshalJSON decodes a retention category, mapping unrecognized values to
// [RetentionUnknown] instead of returning an error.
func (c *RetentionCategory) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch RetentionCategory(raw) {
	case RetentionAuthLogs, RetentionSessionData, RetentionAuditTrail, RetentionUserContent:
		*c = RetentionCategory(raw)
	default:
		*c = RetentionUnknown
	}
	return nil
}

// RetentionPolicy defines a public type used by goSession APIs.
//
// RetentionPolicy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RetentionPolicy struct {
	Category   RetentionCategory `json:"category"`
	Days       int               `json:"days"`
	AutoDelete bool              `json:"auto_delete"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// DeletionRequest defines a public type used by goSession APIs.
//
// DeletionRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type DeletionRequest struct {
	Category     RetentionCategory `json:"category"`
	RequestedAt  time.Time         `json:"requested_at"`
	ScheduledFor time.Time         `json:"scheduled_for"`
}

/*
====================================
EXPORT TYPES
====================================
*/

// ExportStatus defines a public type used by goSession APIs.
//
// ExportStatus instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ExportStatus string

const (
	// ExportPending is an exported constant or variable used by the session manager.
	ExportPending ExportStatus = "pending"

	// ExportProcessing is an exported constant or variable used by the session manager.
	ExportProcessing ExportStatus = "processing"

	// ExportReady is an exported constant or variable used by the session manager.
	ExportReady ExportStatus = "ready"

	// ExportFailed is an exported constant or variable used by the session manager.
	ExportFailed ExportStatus = "failed"

	// ExportUnknown is the decode fallback for statuses this build does not know.
	ExportUnknown ExportStatus = "unknown"
)

// UnmarshalJSON decodes an export status, mapping unrecognized values to
// [ExportUnknown] instead of returning an error.
func (s *ExportStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch ExportStatus(raw) {
	case ExportPending, ExportProcessing, ExportReady, ExportFailed:
		*s = ExportStatus(raw)
	default:
		*s = ExportUnknown
	}
	return nil
}

// ExportRequest defines a public type used by goSession APIs.
//
// ExportRequest instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ExportRequest struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Status      ExportStatus `json:"status"`
	RequestedAt time.Time    `json:"requested_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	DownloadURL string       `json:"download_url,omitempty"`
}
