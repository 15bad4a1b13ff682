package events

// Event type constants for report lifecycle events.
const (
	TypeReportCaptured = "report_captured"
	TypeReportIndexed  = "report_indexed"
	TypeReportPruned   = "report_pruned"
)

// ReportCapturedEvent is emitted when a new crash report appears in the
// reports directory. This is a PRIORITY event, published blocking.
type ReportCapturedEvent struct {
	BaseEvent
	ReportID string `json:"report_id"`
	FileName string `json:"file_name"`
	Signal   int    `json:"signal"`
	Reason   string `json:"reason"`
	Frames   int    `json:"frames"`
}

// NewReportCapturedEvent creates a new report captured event.
func NewReportCapturedEvent(source, reportID, fileName, reason string, signal, frames int) ReportCapturedEvent {
	return ReportCapturedEvent{
		BaseEvent: NewBaseEvent(TypeReportCaptured, source),
		ReportID:  reportID,
		FileName:  fileName,
		Signal:    signal,
		Reason:    reason,
		Frames:    frames,
	}
}

// ReportIndexedEvent is emitted after each index sync pass that changed
// anything.
type ReportIndexedEvent struct {
	BaseEvent
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Total   int `json:"total"`
}

// NewReportIndexedEvent creates a new index sync event.
func NewReportIndexedEvent(source string, added, removed, total int) ReportIndexedEvent {
	return ReportIndexedEvent{
		BaseEvent: NewBaseEvent(TypeReportIndexed, source),
		Added:     added,
		Removed:   removed,
		Total:     total,
	}
}

// ReportPrunedEvent is emitted when retention removes old reports.
type ReportPrunedEvent struct {
	BaseEvent
	Removed int `json:"removed"`
	Kept    int `json:"kept"`
}

// NewReportPrunedEvent creates a new prune event.
func NewReportPrunedEvent(source string, removed, kept int) ReportPrunedEvent {
	return ReportPrunedEvent{
		BaseEvent: NewBaseEvent(TypeReportPruned, source),
		Removed:   removed,
		Kept:      kept,
	}
}
