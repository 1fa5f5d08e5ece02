package models

// WorkflowState tracks one draft's progression through the publishing
// pipeline. Transitions are strictly forward except Failed -> Uploaded
// (retry) and Published -> Idle (reset after success).
type WorkflowState string

const (
	WorkflowIdle       WorkflowState = "idle"
	WorkflowUploaded   WorkflowState = "uploaded"
	WorkflowPublishing WorkflowState = "publishing"
	WorkflowPublished  WorkflowState = "published"
	WorkflowFailed     WorkflowState = "failed"
)

// CanPreview reports whether the preview affordance is enabled. Preview and
// publish are available in exactly the same states: a staged upload exists
// and no publish is in flight.
func (s WorkflowState) CanPreview() bool {
	return s == WorkflowUploaded || s == WorkflowFailed
}

// CanPublish reports whether a publish attempt may start. Failed counts the
// same as Uploaded so the operator can retry without re-uploading.
func (s WorkflowState) CanPublish() bool {
	return s == WorkflowUploaded || s == WorkflowFailed
}
