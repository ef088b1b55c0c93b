package composer

import "errors"

var (
	// ErrEmptyInput is returned when there is neither text nor a staged file.
	ErrEmptyInput = errors.New("empty input")
	// ErrSubmissionFailed is returned when a chat-style endpoint fails.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrUploadFailed is returned when the upload endpoint fails.
	ErrUploadFailed = errors.New("upload failed")
	// ErrInvalidFileType is returned when a non-PDF file is selected.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrBusy is returned when a submission is already outstanding.
	ErrBusy = errors.New("submission in progress")
	// ErrNoRoute is returned for a mode the router has no endpoint for.
	ErrNoRoute = errors.New("no route for mode")
)

// Status strings shown to the user.
const (
	StatusEmptyInput      = "Please enter a message or select a PDF file."
	StatusSubmitFailed    = "Message submission failed."
	StatusUploadFailed    = "Failed to upload file."
	StatusUploadSucceeded = "File uploaded successfully."
	StatusInvalidFile     = "Please select a valid PDF file."
)

// NoResponse is the bot text used when a reply carries no content.
const NoResponse = "No response from the server."

// StatusFor returns the user-facing status for err. It returns "" for nil
// and for ErrBusy.
func StatusFor(err error) string {
	switch {
	case err == nil, errors.Is(err, ErrBusy):
		return ""
	case errors.Is(err, ErrEmptyInput):
		return StatusEmptyInput
	case errors.Is(err, ErrUploadFailed):
		return StatusUploadFailed
	case errors.Is(err, ErrInvalidFileType):
		return StatusInvalidFile
	default:
		return StatusSubmitFailed
	}
}
