package account

import (
	"github.com/go-playground/validator/v10"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

var recordRules = map[string]any{
	domain.FieldEmail:    "required",
	domain.FieldPassword: "required",
}

// RecordValidator keeps records carrying both identity fields. Values are only
// checked for presence; email syntax is left to the identity provider.
type RecordValidator struct {
	validate *validator.Validate
}

func NewRecordValidator() *RecordValidator {
	return &RecordValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RecordValidator) Valid(record domain.Record) bool {
	fields := map[string]any{
		domain.FieldEmail:    record.Email(),
		domain.FieldPassword: record.Password(),
	}
	return len(v.validate.ValidateMap(fields, recordRules)) == 0
}

func (v *RecordValidator) Keep(records []domain.Record) []domain.Record {
	kept := make([]domain.Record, 0, len(records))
	for _, record := range records {
		if v.Valid(record) {
			kept = append(kept, record)
		}
	}
	return kept
}
