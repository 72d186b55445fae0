package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")

	ErrStateNotFound = fmt.Errorf("state %w", ErrNotFound)
	ErrCityNotFound  = fmt.Errorf("city %w", ErrNotFound)
	ErrImageNotFound = fmt.Errorf("image %w", ErrNotFound)
)

// ValidationError carries the message shown to the client for a rejected
// request. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// Client-facing validation messages.
const (
	MsgAllFieldsRequired   = "All fields are required"
	MsgInvalidEmail        = "Invalid email address"
	MsgMissingParameters   = "Missing required parameters"
	MsgInvalidAction       = "Invalid action"
	MsgInvalidStateData    = "Invalid state data"
	MsgInvalidCityData     = "Invalid city data"
	MsgNoFileUploaded      = "No file uploaded"
	MsgCitySlugRequired    = "City slug is required"
	MsgFileTooLarge        = "File too large. Maximum size is 5MB"
	MsgOnlyImagesAllowed   = "Only image files are allowed"
	MsgUnreadableImageFile = "Uploaded file is not a readable image"
)
