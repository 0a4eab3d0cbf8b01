package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"seizure-care-server/internal/validation"
)

var ruleCodes = map[string]string{
	"required":                 CodeMissingField,
	validation.TagNotBlank:     CodeInvalidInput,
	validation.TagCalendarDate: CodeInvalidDateFormat,
	validation.TagClockTime:    CodeInvalidTimeFormat,
	validation.TagTimeList:     CodeInvalidTimes,
	validation.TagSeizureFlag:  CodeInvalidOccurred,
}

// checkRequest applies the struct rules of req and reports the most pressing
// failure: a missing field, then a blank one, then an invalid occurred flag,
// then format errors in field order. messages overrides the text per rule tag.
func checkRequest(req any, messages map[string]string) *Error {
	err := validation.Validator().Struct(req)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return &Error{Kind: KindInternal, Code: CodeInternal, Message: "An unexpected error occurred", Err: err}
	}

	best := errs[0]
	for _, fe := range errs[1:] {
		if ruleRank(fe) < ruleRank(best) {
			best = fe
		}
	}
	if isMissing(best) {
		return missing(best.Field())
	}

	code, ok := ruleCodes[best.Tag()]
	if !ok {
		code = CodeInvalidInput
	}
	msg, ok := messages[best.Tag()]
	if !ok {
		msg = ruleMessage(best)
	}
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}

// isMissing reports an absent field. A nil occurred flag fails its rule
// rather than required, since 0 is a valid value.
func isMissing(fe validator.FieldError) bool {
	return fe.Tag() == "required" || (fe.Tag() == validation.TagSeizureFlag && fe.Value() == nil)
}

func ruleRank(fe validator.FieldError) int {
	switch {
	case isMissing(fe):
		return 0
	case fe.Tag() == validation.TagNotBlank:
		return 1
	case fe.Tag() == validation.TagSeizureFlag:
		return 2
	}
	return 3
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case validation.TagNotBlank:
		return fmt.Sprintf("Field '%s' cannot be empty", fe.Field())
	case validation.TagCalendarDate:
		return "Date must be in YYYY-MM-DD format"
	case validation.TagClockTime:
		if strings.Contains(fe.Field(), "[") {
			return fmt.Sprintf("Time '%v' must be in HH:MM format (24-hour)", fe.Value())
		}
		return "Time must be in HH:MM format (24-hour)"
	case validation.TagTimeList:
		return "Times must be a non-empty array of time strings"
	case validation.TagSeizureFlag:
		return "Occurred must be 0 (no seizure) or 1 (seizure occurred)"
	}
	return fmt.Sprintf("Field '%s' is invalid", fe.Field())
}
