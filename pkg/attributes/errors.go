package attributes

import "errors"

var (
	// ErrTooManyCategories is returned when a table has fewer than 2 or more than
	// MaxColumns columns.
	ErrTooManyCategories = errors.New("attribute table must have between 2 and 255 columns")
	// ErrUnknownCategory is returned for a category name not in the table.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidInterval is returned for interval edits that cannot be applied.
	ErrInvalidInterval = errors.New("invalid interval")
	// ErrCategoryInvalid is returned when a category's boundaries are out of order.
	ErrCategoryInvalid = errors.New("category has invalid intervals")
	// ErrKindMismatch is returned when values cannot be read as the requested kind, or
	// an interval operation targets a categorical category.
	ErrKindMismatch = errors.New("category kind mismatch")
)
