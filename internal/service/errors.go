package service

import "errors"

var (
	ErrNotConnected = errors.New("a conexão do WhatsApp não está conectada")
	ErrMissingToken = errors.New("token da W-API não configurado para esta empresa")
)

// ValidationError marks input the caller must fix. Its message is shown to the user as is.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(msg string) error {
	return &ValidationError{Err: errors.New(msg)}
}

func invalidErr(err error) error {
	return &ValidationError{Err: err}
}
