package account

import "strings"

type ReportKind string

const (
	ReportSucceeded   ReportKind = "succeeded"
	ReportNoValidRows ReportKind = "no_valid_rows"
	ReportFailures    ReportKind = "failures"
)

const (
	FailureReportTitle = "An error occurred while importing following emails"
	NoValidRowsMessage = "Please select a file with valid data!"
	SuccessMessage     = "Import was completed successfully"
)

type ImportReport struct {
	Kind         ReportKind
	Title        string
	Message      string
	FailedEmails []string
}

// BuildReport picks exactly one message. Per-row failures win over the
// invalid-data notice, which wins over success.
func BuildReport(failedEmails []string, invalidRows bool) ImportReport {
	if len(failedEmails) > 0 {
		var body strings.Builder
		for _, email := range failedEmails {
			body.WriteString(email)
			body.WriteString("\n")
		}
		return ImportReport{
			Kind:         ReportFailures,
			Title:        FailureReportTitle,
			Message:      body.String(),
			FailedEmails: append([]string(nil), failedEmails...),
		}
	}

	if invalidRows {
		return ImportReport{Kind: ReportNoValidRows, Message: NoValidRowsMessage}
	}

	return ImportReport{Kind: ReportSucceeded, Message: SuccessMessage}
}
