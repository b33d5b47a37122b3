package geometry

import "errors"

// Evaluation errors. All of them are fatal for the element being rendered.
var (
	ErrUnknownIdentifier   = errors.New("unknown formula identifier")
	ErrUnknownFunction     = errors.New("unknown formula function")
	ErrUnresolvedReference = errors.New("unresolved formula reference")
	ErrUnexpectedToken     = errors.New("unexpected token")
	ErrMalformedToken      = errors.New("malformed token")
	ErrUnknownPathCommand  = errors.New("unknown path command")
	ErrFormulaCycle        = errors.New("formula reference cycle")
)
