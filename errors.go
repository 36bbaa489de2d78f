package formrules

import "errors"

var (
	ErrInvalidConstraint = errors.New("invalid constraint")
	ErrInvalidRuleSet    = errors.New("invalid rule set")
	ErrNilPredicate      = errors.New("rule predicate is nil")
	ErrReservedRule      = errors.New("rule name is reserved")
	ErrInvalidMessages   = errors.New("invalid message catalogue")
	ErrLoadingCatalogue  = errors.New("failed to load default message catalogue")
)
