// maestro/pkg/logging/errors.go

package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

type ErrorType string

const (
	ErrorTypeParse    ErrorType = "PARSE"
	ErrorTypeEvaluate ErrorType = "EVALUATE"
	ErrorTypeFetch    ErrorType = "FETCH"
	ErrorTypeStore    ErrorType = "STORE"
	ErrorTypeActor    ErrorType = "ACTOR"
)

type MaestroError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  map[string]interface{}
}

func (e *MaestroError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *MaestroError) Unwrap() error {
	return e.Err
}

func NewError(errType ErrorType, message string, err error, fields map[string]interface{}) *MaestroError {
	return &MaestroError{
		Type:    errType,
		Message: message,
		Err:     err,
		Fields:  fields,
	}
}

func LogError(logger zerolog.Logger, err error) {
	mErr, ok := err.(*MaestroError)
	if !ok {
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	event := logger.Error().Err(mErr.Err).
		Str("error_type", string(mErr.Type)).
		Str("message", mErr.Message)

	for k, v := range mErr.Fields {
		event = event.Interface(k, v)
	}

	event.Msg(mErr.Message)
}
