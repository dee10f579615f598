// Package validation checks configuration and command-line input.
//
// Struct tags are validated with go-playground/validator. Besides the
// built-in tags, "cron" accepts a 5-field cron expression:
//
//	type Settings struct {
//	    Cron        string `mapstructure:"cron" validate:"omitempty,cron"`
//	    MaxParallel int    `mapstructure:"max_parallel" validate:"gte=0"`
//	}
//	err := validation.ValidateStruct(settings)
//
// Checks that do not fit tags use the collecting Validator:
//
//	err := validation.New().
//	    Required("pipeline", path).
//	    Cron("cron", expr).
//	    Validate()
package validation
