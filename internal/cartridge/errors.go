package cartridge

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidROM is wrapped by every error caused by an unreadable or malformed ROM image.
	ErrInvalidROM = errors.New("invalid ROM")
	// ErrUnsupportedMapper is wrapped by UnsupportedMapperError.
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)

// InvalidRomError reports a ROM image that cannot be used.
type InvalidRomError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidRomError) Error() string {
	msg := "invalid ROM"
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrInvalidROM) as well as matching the underlying I/O error.
func (e *InvalidRomError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidROM}
	}
	return []error{ErrInvalidROM, e.Err}
}

// UnsupportedMapperError reports a mapper id outside the implemented set.
type UnsupportedMapperError struct {
	ID uint8
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("unsupported mapper %d", e.ID)
}

func (e *UnsupportedMapperError) Unwrap() error {
	return ErrUnsupportedMapper
}
