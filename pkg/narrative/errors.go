package narrative

import "errors"

var (
	ErrVarSpec          = errors.New("narrative: one of varname or expr is required")
	ErrOverlap          = errors.New("narrative: span overlaps an existing variable")
	ErrVariableNotFound = errors.New("narrative: variable not found")
	ErrSourceNotFound   = errors.New("narrative: source not found")
	ErrOutOfRange       = errors.New("narrative: nugget index out of range")
)
