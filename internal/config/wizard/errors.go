package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errPathRequired    = errors.New("path is required")
	errPathNotAbsolute = errors.New("path must be absolute")
	errAddressInvalid  = errors.New("address must be host:port or :port")
	errPortInvalid     = errors.New("port must be a number between 1 and 65535")
)
