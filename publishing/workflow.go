package publishing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/lakonic/pressroom/markdown"
	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/slugs"
)

// Uploader stages a source document and reports where it landed.
type Uploader interface {
	Upload(ctx context.Context, desc models.Descriptor, slug, fileName string, data []byte) (*models.StagedUpload, error)
}

// Publisher runs the conversion-to-persistence half of the workflow.
type Publisher interface {
	Publish(ctx context.Context, desc models.Descriptor, draft models.ContentDraft, staged *models.StagedUpload) (*PublishOutcome, error)
}

// Snapshot is a point-in-time view of a workflow, safe to hand to HTTP
// handlers while the workflow keeps moving.
type Snapshot struct {
	ContentType   models.ContentType   `json:"content_type"`
	State         models.WorkflowState `json:"state"`
	CanPreview    bool                 `json:"can_preview"`
	CanPublish    bool                 `json:"can_publish"`
	UploadedPath  string               `json:"uploaded_path,omitempty"`
	FailureReason string               `json:"failure_reason,omitempty"`
}

// Workflow tracks one content type's upload-then-publish lifecycle. All
// transitions are checked before any I/O happens, and a failed publish
// returns to a retryable state without requiring a re-upload.
type Workflow struct {
	desc      models.Descriptor
	uploader  Uploader
	publisher Publisher

	mu            sync.Mutex
	state         models.WorkflowState
	draft         models.ContentDraft
	staged        *models.StagedUpload
	failureReason string
}

// NewWorkflow creates a workflow in the Idle state.
func NewWorkflow(desc models.Descriptor, uploader Uploader, publisher Publisher) *Workflow {
	return &Workflow{
		desc:      desc,
		uploader:  uploader,
		publisher: publisher,
		state:     models.WorkflowIdle,
	}
}

// Upload validates the draft and stages its source document. Only an Idle
// workflow accepts an upload; a staged or published document must be Reset
// first.
func (w *Workflow) Upload(ctx context.Context, draft models.ContentDraft) (*models.StagedUpload, error) {
	w.mu.Lock()
	if w.state != models.WorkflowIdle {
		state := w.state
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot upload while %s", ErrInvalidTransition, state)
	}
	w.mu.Unlock()

	if err := draft.Validate(w.desc); err != nil {
		return nil, err
	}

	slug := slugs.Slugify(draft.Title)
	staged, err := w.uploader.Upload(ctx, w.desc, slug, draft.FileName, draft.FileData)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.state = models.WorkflowUploaded
	w.draft = draft
	w.staged = staged
	w.failureReason = ""
	w.mu.Unlock()

	log.Printf("INFO (Workflow): %s staged %q at %s/%s", w.desc.Type, slug, staged.Bucket, staged.Path)
	return staged, nil
}

// Publish runs the staged document through conversion, enhancement, and
// persistence. It is rejected unless the workflow holds a staged document,
// and a failure leaves the workflow retryable without re-uploading.
func (w *Workflow) Publish(ctx context.Context) (*PublishOutcome, error) {
	w.mu.Lock()
	if !w.state.CanPublish() {
		state := w.state
		w.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot publish while %s", ErrInvalidTransition, state)
	}
	w.state = models.WorkflowPublishing
	w.failureReason = ""
	draft := w.draft
	staged := w.staged
	w.mu.Unlock()

	outcome, err := w.publisher.Publish(ctx, w.desc, draft, staged)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = models.WorkflowFailed
		w.failureReason = err.Error()
		log.Printf("ERROR (Workflow): %s publish failed: %v", w.desc.Type, err)
		return nil, err
	}
	w.state = models.WorkflowPublished
	return outcome, nil
}

// Preview renders a sanitized HTML preview of the staged draft. Available in
// the same states as Publish.
func (w *Workflow) Preview() (string, error) {
	w.mu.Lock()
	if !w.state.CanPreview() {
		state := w.state
		w.mu.Unlock()
		return "", fmt.Errorf("%w: cannot preview while %s", ErrInvalidTransition, state)
	}
	draft := w.draft
	staged := w.staged
	w.mu.Unlock()

	html, err := markdown.RenderHTML(previewDocument(draft, staged))
	if err != nil {
		return "", newError(KindPreviewFailed, fmt.Sprintf("Failed to render preview: %v", err), err)
	}
	return html, nil
}

// Reset abandons any staged or published document and returns to Idle. The
// staged object is left in storage; re-publishing the same slug overwrites
// it.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = models.WorkflowIdle
	w.draft = models.ContentDraft{}
	w.staged = nil
	w.failureReason = ""
}

// Snapshot returns the workflow's current state and the operations it
// permits.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := Snapshot{
		ContentType:   w.desc.Type,
		State:         w.state,
		CanPreview:    w.state.CanPreview(),
		CanPublish:    w.state.CanPublish(),
		FailureReason: w.failureReason,
	}
	if w.staged != nil {
		snap.UploadedPath = w.staged.Path
	}
	return snap
}

// previewDocument builds the markdown shown before publication: the draft's
// descriptive fields over the staged document reference. Conversion has not
// run yet, so the body is not available.
func previewDocument(draft models.ContentDraft, staged *models.StagedUpload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", draft.Title)
	if draft.Author != "" {
		fmt.Fprintf(&b, "By %s\n\n", draft.Author)
	}
	if draft.AuthorDesc != "" {
		fmt.Fprintf(&b, "> %s\n\n", draft.AuthorDesc)
	}
	fmt.Fprintf(&b, "**Category:** %s\n\n", draft.Category)
	if staged != nil {
		fmt.Fprintf(&b, "**Source document:** `%s/%s`\n", staged.Bucket, staged.Path)
	}
	return b.String()
}
