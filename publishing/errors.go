package publishing

import "errors"

// ErrorKind classifies publishing workflow failures. The kind decides what
// the operator can do next: everything is fatal to the current attempt, but
// Failed-state errors leave the staged upload intact so publish can simply
// be retried.
type ErrorKind string

const (
	// KindStorageMisconfigured means the target storage container is
	// absent or unreachable. Never retried.
	KindStorageMisconfigured ErrorKind = "storage_misconfigured"
	// KindUploadFailed covers upload errors after the one-shot fallback
	// path (when applicable) has also failed.
	KindUploadFailed ErrorKind = "upload_failed"
	// KindConversionFailed means the remote conversion capability rejected
	// the document or could not be reached. Never retried automatically.
	KindConversionFailed ErrorKind = "conversion_failed"
	// KindDownloadFailed means the generated markdown could not be read
	// back from storage.
	KindDownloadFailed ErrorKind = "download_failed"
	// KindSchemaMismatch means the minimal-record fallback itself hit an
	// unknown column. The first mismatch is recovered internally; this
	// kind marks the second, fatal one.
	KindSchemaMismatch ErrorKind = "schema_mismatch"
	// KindPersistenceFailed covers every other datastore error.
	KindPersistenceFailed ErrorKind = "persistence_failed"
	// KindPreviewFailed means the staged draft could not be rendered to
	// HTML. The workflow state is untouched.
	KindPreviewFailed ErrorKind = "preview_failed"
)

// WorkflowError carries a classified failure with an operator-facing
// message, modeled after webutil.HTTPError.
type WorkflowError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *WorkflowError) Error() string {
	return e.Message
}

func (e *WorkflowError) Unwrap() error {
	return e.cause
}

func newError(kind ErrorKind, message string, cause error) *WorkflowError {
	return &WorkflowError{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the error kind, or empty for unclassified errors.
func KindOf(err error) ErrorKind {
	var we *WorkflowError
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

// ErrInvalidTransition is returned when an operation is requested from a
// workflow state that does not permit it, before any I/O happens.
var ErrInvalidTransition = errors.New("operation not permitted in current workflow state")
