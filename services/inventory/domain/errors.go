package domain

import "errors"

// Sentinel errors for the inventory domain. Use errors.Is() to check these.
var (
	// ErrEmptySubmission indicates the submitted text has no non-whitespace characters.
	ErrEmptySubmission = errors.New("submission text is empty")

	// ErrInvalidItemName indicates an item name violates domain constraints.
	ErrInvalidItemName = errors.New("invalid item name")

	// ErrInvalidQuantity indicates a quantity below 1 or beyond the storable range.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidContainerName indicates a container name violates domain constraints.
	ErrInvalidContainerName = errors.New("invalid container name")

	// ErrContainerNotFound indicates the selected container id does not exist.
	ErrContainerNotFound = errors.New("container not found")

	// ErrExtractionFailed indicates the structuring capability produced no usable
	// result. It never leaves the extractor.
	ErrExtractionFailed = errors.New("item extraction failed")

	// ErrStorage indicates the inventory transaction did not commit.
	ErrStorage = errors.New("inventory not saved")

	// ErrLabelTransmission indicates the label could not be handed to the printer.
	ErrLabelTransmission = errors.New("label transmission failed")
)
