package enums

type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "OPEN"
	ReportStatusReviewed ReportStatus = "REVIEWED"
	ReportStatusClosed   ReportStatus = "CLOSED"
)

func ParseReportStatus(value string) (ReportStatus, bool) {
	switch ReportStatus(value) {
	case ReportStatusOpen, ReportStatusReviewed, ReportStatusClosed:
		return ReportStatus(value), true
	}
	return "", false
}

// rank orders report statuses along the review flow. Transitions never
// move backwards.
func (s ReportStatus) rank() int {
	switch s {
	case ReportStatusOpen:
		return 0
	case ReportStatusReviewed:
		return 1
	case ReportStatusClosed:
		return 2
	}
	return -1
}

// CanTransitionTo reports whether a report may move from s to next.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	return next.rank() > s.rank()
}
