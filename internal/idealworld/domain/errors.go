package domain

import (
	"errors"
	"fmt"
)

// ValidationError is a problem with the submission itself. It is reported to
// the caller as-is and never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingName       = &ValidationError{Message: "Informe o nome"}
	ErrMissingIdealWorld = &ValidationError{Message: "Informe como você imagina o mundo perfeito"}
	ErrNotAligned        = &ValidationError{Message: "Visão inválida. O seu prompt deve ser focado especificamente na ODS 13: Ação Climática (combate às mudanças climáticas, energias renováveis, redução de emissões, etc.)."}
)

// PipelineError is a failure of an external step. The pipeline ends in
// StageFailed; Stage records where it happened.
type PipelineError struct {
	Stage Stage
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
