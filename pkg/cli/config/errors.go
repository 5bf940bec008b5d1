package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound       = goerr.New("configuration file not found")
	ErrInvalidConfig        = goerr.New("invalid configuration")
	ErrDuplicateCriterionID = goerr.New("duplicate criterion ID")
	ErrMissingBoard         = goerr.New("board ID is required")
	ErrMissingColumn        = goerr.New("column ID is required")
)
