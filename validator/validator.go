// Package validator holds the input checks for URL submissions. Each
// check returns nil or a single field error as data; validation
// failures are never raised as panics or wrapped errors, the caller
// surfaces them verbatim.
package validator

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/sarayu-uu/22STUCHH010195/model"
)

const (
	minShortCodeLength  = 3
	maxShortCodeLength  = 20
	maxValidityMinutes  = 525600 // one year
	maxBatchSubmissions = 5
)

var alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// CodeChecker reports whether a short code is already taken.
type CodeChecker interface {
	CodeExists(ctx context.Context, code string) bool
}

// Validator checks URL submissions. All checks are pure except the
// custom short-code availability lookup, which is delegated to the
// CodeChecker.
type Validator struct {
	codes CodeChecker
}

// New creates a Validator using codes for availability lookups.
func New(codes CodeChecker) *Validator {
	return &Validator{codes: codes}
}

// ValidateURL checks that the URL is present, parses as an absolute
// URL, and uses the http or https scheme.
func ValidateURL(rawURL string) *model.ValidationError {
	if strings.TrimSpace(rawURL) == "" {
		log.Warn().Str("category", "validation").Msg("URL validation failed: empty URL")
		return &model.ValidationError{Field: "url", Message: "URL is required"}
	}

	parsed, err := url.ParseRequestURI(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		log.Warn().Str("category", "validation").Str("url", rawURL).Msg("URL validation failed: invalid format")
		return &model.ValidationError{Field: "url", Message: "Please enter a valid URL"}
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		log.Warn().Str("category", "validation").Str("scheme", parsed.Scheme).Msg("URL validation failed: invalid protocol")
		return &model.ValidationError{Field: "url", Message: "URL must use HTTP or HTTPS protocol"}
	}

	return nil
}

// ValidateValidityMinutes checks the validity window bounds. A nil
// value means "use the default" and passes.
func ValidateValidityMinutes(minutes *int) *model.ValidationError {
	if minutes == nil {
		return nil
	}

	if *minutes < 1 {
		log.Warn().Str("category", "validation").Int("minutes", *minutes).Msg("Validity validation failed: too low")
		return &model.ValidationError{Field: "validityMinutes", Message: "Validity must be at least 1 minute"}
	}

	if *minutes > maxValidityMinutes {
		log.Warn().Str("category", "validation").Int("minutes", *minutes).Msg("Validity validation failed: too high")
		return &model.ValidationError{Field: "validityMinutes", Message: "Validity cannot exceed 1 year"}
	}

	return nil
}

// ValidateCustomShortCode checks the shape and availability of a
// user-supplied code. Empty passes; a code will be generated instead.
func (v *Validator) ValidateCustomShortCode(ctx context.Context, code string) *model.ValidationError {
	if code == "" {
		return nil
	}

	if len(code) < minShortCodeLength {
		log.Warn().Str("category", "validation").Str("short_code", code).Msg("Shortcode validation failed: too short")
		return &model.ValidationError{Field: "customShortCode", Message: "Custom shortcode must be at least 3 characters"}
	}

	if len(code) > maxShortCodeLength {
		log.Warn().Str("category", "validation").Str("short_code", code).Msg("Shortcode validation failed: too long")
		return &model.ValidationError{Field: "customShortCode", Message: "Custom shortcode cannot exceed 20 characters"}
	}

	if !alphanumeric.MatchString(code) {
		log.Warn().Str("category", "validation").Str("short_code", code).Msg("Shortcode validation failed: invalid characters")
		return &model.ValidationError{Field: "customShortCode", Message: "Custom shortcode must be alphanumeric only"}
	}

	if v.codes.CodeExists(ctx, code) {
		log.Warn().Str("category", "validation").Str("short_code", code).Msg("Shortcode validation failed: already taken")
		return &model.ValidationError{Field: "customShortCode", Message: "This shortcode is already taken"}
	}

	return nil
}

// ValidateSubmission aggregates the URL, validity and short-code
// checks into an ordered error list. Empty means acceptable.
func (v *Validator) ValidateSubmission(ctx context.Context, data model.Submission) model.ValidationErrors {
	var errs model.ValidationErrors

	if e := ValidateURL(data.URL); e != nil {
		errs = append(errs, *e)
	}
	if e := ValidateValidityMinutes(data.ValidityMinutes); e != nil {
		errs = append(errs, *e)
	}
	if e := v.ValidateCustomShortCode(ctx, data.CustomShortCode); e != nil {
		errs = append(errs, *e)
	}

	if len(errs) > 0 {
		log.Warn().Str("category", "validation").Int("errors", len(errs)).Msg("URL submission validation failed")
	}
	return errs
}

// ValidateBatch validates 1 to 5 submissions. An empty or oversized
// batch fails as a whole with a single synthetic error at index 0;
// otherwise each failing submission is keyed by its index.
func (v *Validator) ValidateBatch(ctx context.Context, batch []model.Submission) model.BatchValidationError {
	batchErrors := model.BatchValidationError{}

	if len(batch) == 0 {
		log.Warn().Str("category", "validation").Msg("Batch validation failed: no URLs provided")
		batchErrors[0] = model.ValidationErrors{{Field: "batch", Message: "At least one URL is required"}}
		return batchErrors
	}

	if len(batch) > maxBatchSubmissions {
		log.Warn().Str("category", "validation").Int("count", len(batch)).Msg("Batch validation failed: too many URLs")
		batchErrors[0] = model.ValidationErrors{{Field: "batch", Message: "Maximum 5 URLs allowed at once"}}
		return batchErrors
	}

	for i, data := range batch {
		if errs := v.ValidateSubmission(ctx, data); len(errs) > 0 {
			batchErrors[i] = errs
		}
	}

	return batchErrors
}
