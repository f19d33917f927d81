package core

import "errors"

var (
	ErrInsufficientData     = errors.New("insufficient data")
	ErrInvalidBufferLength  = errors.New("invalid buffer length")
	ErrInvalidHorizon       = errors.New("invalid horizon")
	ErrInvalidTimeStep      = errors.New("invalid time step")
	ErrInvalidSplitRatio    = errors.New("invalid split ratio")
	ErrEmptySeries          = errors.New("empty series")
	ErrScalerNotFitted      = errors.New("scaler not fitted")
	ErrMissingColumn        = errors.New("missing column")
	ErrUnknownModel         = errors.New("unknown model")
	ErrMismatchedSeriesSize = errors.New("mismatched series size")
	ErrInvalidConfidence    = errors.New("invalid confidence level")
)
