package calc

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sosubot/ppcalc/mods"
	"github.com/sosubot/ppcalc/scoring"
)

// requestValidate checks field tags and the cross-field rules in
// validateRequestFields.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	requestValidate.RegisterStructValidation(validateRequestFields, Request{})
}

// Request describes one score to rate.
type Request struct {
	// BeatmapID is the upstream beatmap id.
	BeatmapID int `validate:"gt=0"`

	// Ruleset selects the estimator and collaborators.
	Ruleset scoring.Ruleset `validate:"gte=0,lte=3"`

	// Accuracy is the target accuracy in [0,1]. Nil means it is derived
	// from Statistics.
	Accuracy *float64 `validate:"omitempty,gte=0,lte=1"`

	// Passed is false for an attempt that ended before the last object.
	Passed bool

	// MaxCombo is the score's combo. Nil means the beatmap maximum.
	MaxCombo *int `validate:"omitempty,gte=0"`

	// Mods is the mod set of the score. Nil means no mods.
	Mods mods.Set

	// Statistics is the score's hit breakdown, if known.
	Statistics scoring.Statistics `validate:"omitempty,dive,gte=0"`
}

// Failed-attempt and missing-input rules that tags cannot express.
func validateRequestFields(sl validator.StructLevel) {
	req := sl.Current().Interface().(Request)

	if req.Statistics == nil {
		if !req.Passed {
			sl.ReportError(req.Statistics, "Statistics", "Statistics", "required_when_failed", "")
		}
		if req.Accuracy == nil {
			sl.ReportError(req.Accuracy, "Accuracy", "Accuracy", "required_without_statistics", "")
		}
		return
	}
	if !req.Passed && req.Statistics.BasicTotal() == 0 {
		sl.ReportError(req.Statistics, "Statistics", "Statistics", "judged_objects", "")
	}
}

var tagReasons = map[string]string{
	"gt":                          "must be greater than %s",
	"gte":                         "must be at least %s",
	"lte":                         "must be at most %s",
	"required_when_failed":        "is required for a failed attempt",
	"required_without_statistics": "is required when no statistics are given",
	"judged_objects":              "must contain at least one judged object for a failed attempt",
}

// Validate checks r and returns a *RequestError naming the first bad field.
func (r Request) Validate() error {
	if err := requestValidate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return &RequestError{Field: "Request", Reason: err.Error(), Err: err}
	}

	if err := r.Statistics.Validate(r.Ruleset); err != nil {
		return &RequestError{Field: "Statistics", Reason: err.Error(), Err: err}
	}

	seen := make(map[string]bool, len(r.Mods))
	for _, m := range r.Mods {
		a := strings.ToUpper(m.Acronym)
		if parsed, err := mods.Parse(a); err != nil || len(parsed) != 1 {
			return &RequestError{Field: "Mods", Reason: fmt.Sprintf("invalid acronym %q", m.Acronym), Err: mods.ErrInvalidAcronym}
		}
		if seen[a] {
			return &RequestError{Field: "Mods", Reason: fmt.Sprintf("duplicate mod %s", a), Err: mods.ErrDuplicateMod}
		}
		seen[a] = true
	}
	if _, err := r.Mods.Key(); err != nil {
		return &RequestError{Field: "Mods", Reason: err.Error(), Err: err}
	}
	return nil
}

func fieldError(fe validator.FieldError) *RequestError {
	field := strings.TrimPrefix(fe.Namespace(), "Request.")
	reason := fe.Tag()
	if format, ok := tagReasons[fe.Tag()]; ok {
		if strings.Contains(format, "%s") {
			reason = fmt.Sprintf(format, fe.Param())
		} else {
			reason = format
		}
	}
	return &RequestError{Field: field, Reason: reason, Err: fe}
}
