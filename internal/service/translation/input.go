package translation

import (
	"math"
	"strings"

	"github.com/heartmarshall/myenglish-reader/internal/domain"
)

const maxTemperature = 2.0

// Request is one translation call. Nil generation parameters use the
// provider's configured defaults.
type Request struct {
	Prompt      string
	MaxTokens   *int
	Temperature *float64
}

// Validate checks the request before any provider call is made.
func (r Request) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(r.Prompt) == "" {
		errs = append(errs, domain.FieldError{Field: "prompt", Message: "required"})
	}
	if r.MaxTokens != nil && *r.MaxTokens <= 0 {
		errs = append(errs, domain.FieldError{Field: "maxTokens", Message: "must be positive"})
	}
	if r.Temperature != nil {
		t := *r.Temperature
		if math.IsNaN(t) || t < 0 || t > maxTemperature {
			errs = append(errs, domain.FieldError{Field: "temperature", Message: "must be within [0, 2]"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
