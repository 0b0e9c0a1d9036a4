package codec

import "errors"

// Conversion errors. Use errors.Is() to check for these in calling code.
var (
	// ErrUnknownFormat is returned for a value-kind the codec does not handle.
	ErrUnknownFormat = errors.New("codec: unknown format")

	// ErrConversion is returned when a value cannot be converted to the requested kind.
	ErrConversion = errors.New("codec: conversion failed")
)
