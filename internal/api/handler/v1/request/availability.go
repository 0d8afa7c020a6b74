package request

import (
	"errors"
	"fmt"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Calendar day, no time component.
const isoDatePattern = `^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`

var (
	isoDateRegex   = regexp2.MustCompile(isoDatePattern, regexp2.None)
	errInvalidDate = errors.New("must be an ISO date (YYYY-MM-DD)")
)

// VoteRequest is the body of POST /availability. It carries either the
// full-replacement form (name + dates) or the incremental toggle form
// (name + date + action); a non-empty action selects the latter.
type VoteRequest struct {
	Name   string   `json:"name"`
	Dates  []string `json:"dates"`
	Date   string   `json:"date"`
	Action string   `json:"action"`
}

func (req *VoteRequest) IsToggle() bool {
	return req.Action != ""
}

func (req *VoteRequest) Validate() error {
	if req.IsToggle() {
		return validation.ValidateStruct(
			req,
			validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
			validation.Field(&req.Date, validation.Required, validation.By(isISODate)),
			validation.Field(&req.Action, validation.In("add", "remove")),
		)
	}

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.Dates, validation.NotNil, validation.By(eachISODate)),
	)
}

func isISODate(value interface{}) error {
	date, ok := value.(string)
	if !ok {
		return errInvalidDate
	}

	matched, err := isoDateRegex.MatchString(date)
	if err != nil || !matched {
		return errInvalidDate
	}

	return nil
}

func eachISODate(value interface{}) error {
	dates, ok := value.([]string)
	if !ok {
		return errInvalidDate
	}

	for _, date := range dates {
		if err := isISODate(date); err != nil {
			return fmt.Errorf("%q: %w", date, err)
		}
	}

	return nil
}
