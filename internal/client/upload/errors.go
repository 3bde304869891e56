package upload

import (
	"errors"
	"strings"
)

var (
	ErrUploadPending   = errors.New("please wait for image upload to finish")
	ErrNoChanges       = errors.New("no changes made")
	ErrNothingSelected = errors.New("please select an image first")
	ErrSingleImage     = errors.New("only one image can be uploaded here")
)

// ValidationError lists required fields that are empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "required: " + strings.Join(e.Fields, ", ")
}
