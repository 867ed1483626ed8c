package service

import "fmt"

// Stage names a step of event processing.
type Stage string

const (
	StageValidate  Stage = "VALIDATE"
	StageTranslate Stage = "TRANSLATE"
	StageEncode    Stage = "ENCODE"
	StagePublish   Stage = "PUBLISH"
	StageStore     Stage = "STORE"
)

const (
	ErrCodeInvalidEvent    = "INVALID_EVENT"
	ErrCodeTranslate       = "TRANSLATE_ERROR"
	ErrCodeEncodeBatch     = "ENCODE_BATCH_ERROR"
	ErrCodePublishBatch    = "PUBLISH_BATCH_ERROR"
	ErrCodeIdempotency     = "IDEMPOTENCY_ERROR"
	ErrCodeOutbox          = "OUTBOX_ERROR"
	ErrCodeResolveProperty = "RESOLVE_PROPERTY_ERROR"
)

// StageError is a typed processing error with stage and stable code.
type StageError struct {
	Stage Stage
	Code  string
	Op    string
	Err   error
}

func (e *StageError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Op == "" {
		return fmt.Sprintf("[%s:%s] %v", e.Stage, e.Code, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s: %v", e.Stage, e.Code, e.Op, e.Err)
}

func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapStage wraps err into StageError and keeps the cause chain.
func wrapStage(stage Stage, code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{
		Stage: stage,
		Code:  code,
		Op:    op,
		Err:   err,
	}
}
