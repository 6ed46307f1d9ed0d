package account

type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created"
	OutcomeFailed  OutcomeStatus = "failed"
)

type ImportOutcome struct {
	Email  string
	Status OutcomeStatus
	UserID string
	Reason string
}

func CreatedOutcome(email, userID string) ImportOutcome {
	return ImportOutcome{Email: email, Status: OutcomeCreated, UserID: userID}
}

func FailedOutcome(email string, err error) ImportOutcome {
	outcome := ImportOutcome{Email: email, Status: OutcomeFailed}
	if err != nil {
		outcome.Reason = err.Error()
	}
	return outcome
}

type ImportSummary struct {
	ProcessedCount int64
	CreatedCount   int64
	FailedCount    int64
	SkippedCount   int64
	// InvalidRows is set when the run had nothing valid to import or met a
	// record without email and password.
	InvalidRows bool
	Outcomes    []ImportOutcome
}

func (s *ImportSummary) Add(outcome ImportOutcome) {
	s.ProcessedCount++
	switch outcome.Status {
	case OutcomeCreated:
		s.CreatedCount++
	case OutcomeFailed:
		s.FailedCount++
	}
	s.Outcomes = append(s.Outcomes, outcome)
}

func (s ImportSummary) FailedEmails() []string {
	emails := make([]string, 0, s.FailedCount)
	for _, outcome := range s.Outcomes {
		if outcome.Status == OutcomeFailed {
			emails = append(emails, outcome.Email)
		}
	}
	return emails
}

func (s ImportSummary) Report() ImportReport {
	return BuildReport(s.FailedEmails(), s.InvalidRows)
}
