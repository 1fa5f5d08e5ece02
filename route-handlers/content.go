package routehandlers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lakonic/pressroom/datastore"
	"github.com/lakonic/pressroom/models"
	"github.com/lakonic/pressroom/publishing"
	"github.com/lakonic/pressroom/storage"
	"github.com/lakonic/pressroom/webutil"
)

// maxUploadBytes caps the multipart source-document upload.
const maxUploadBytes = 32 << 20

// ContentHandler exposes the publishing workflow and the published-content
// catalog over HTTP. One workflow instance exists per content type; the
// handler resolves the {contentType} path parameter to the right one.
type ContentHandler struct {
	workflows map[models.ContentType]*publishing.Workflow
	repo      *datastore.ContentRepository
	store     storage.ObjectStore
}

func NewContentHandler(workflows map[models.ContentType]*publishing.Workflow, repo *datastore.ContentRepository, store storage.ObjectStore) *ContentHandler {
	return &ContentHandler{workflows: workflows, repo: repo, store: store}
}

func (h *ContentHandler) resolve(r *http.Request) (models.ContentType, *publishing.Workflow, error) {
	raw := chi.URLParam(r, "contentType")
	contentType, ok := models.IsValidContentType(raw)
	if !ok {
		return "", nil, webutil.ErrBadRequest(fmt.Sprintf("Unknown content type %q", raw))
	}
	workflow, ok := h.workflows[contentType]
	if !ok {
		return "", nil, webutil.ErrInternalServer(fmt.Sprintf("No workflow configured for %q", contentType))
	}
	return contentType, workflow, nil
}

func (h *ContentHandler) descriptor(contentType models.ContentType) models.Descriptor {
	return models.Descriptors()[contentType]
}

// HandleUpload stages a source document. Expects a multipart form with the
// document under "file" and the draft's descriptive fields as form values.
func (h *ContentHandler) HandleUpload(w http.ResponseWriter, r *http.Request) error {
	contentType, workflow, err := h.resolve(r)
	if err != nil {
		return err
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return webutil.ErrBadRequest("Invalid multipart form: " + err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return webutil.ErrBadRequest("Missing source document under form field \"file\"")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return webutil.ErrInternalServerWrap("Failed to read uploaded file", err)
	}

	draft := models.ContentDraft{
		Title:            r.FormValue("title"),
		Author:           r.FormValue("author"),
		AuthorDesc:       r.FormValue("author_desc"),
		AuthorProfileURL: r.FormValue("author_profile_url"),
		Category:         r.FormValue("category"),
		ContentType:      contentType,
		FileName:         header.Filename,
		FileData:         data,
	}
	if err := draft.Validate(h.descriptor(contentType)); err != nil {
		return webutil.ErrBadRequest(err.Error())
	}

	staged, err := workflow.Upload(r.Context(), draft)
	if err != nil {
		return workflowHTTPError(err)
	}

	log.Printf("INFO: %s source staged: %s/%s", contentType, staged.Bucket, staged.Path)
	webutil.RespondWithJSON(w, http.StatusCreated, staged)
	return nil
}

type publishResponse struct {
	Record   *models.PublishedRecord `json:"record"`
	Degraded bool                    `json:"degraded"`
	Warning  string                  `json:"warning,omitempty"`
}

// HandlePublish runs the staged document through conversion, enhancement,
// and persistence. A degraded persistence (minimal-record fallback) still
// succeeds, with a warning in the response body.
func (h *ContentHandler) HandlePublish(w http.ResponseWriter, r *http.Request) error {
	contentType, workflow, err := h.resolve(r)
	if err != nil {
		return err
	}

	outcome, err := workflow.Publish(r.Context())
	if err != nil {
		return workflowHTTPError(err)
	}

	resp := publishResponse{Record: outcome.Record, Degraded: outcome.Degraded}
	if outcome.Degraded {
		resp.Warning = "Published with reduced metadata: the content table is missing the enhanced columns."
	}

	log.Printf("INFO: %s published: slug=%s degraded=%t", contentType, outcome.Record.Slug, outcome.Degraded)
	webutil.RespondWithJSON(w, http.StatusCreated, resp)
	return nil
}

// HandlePreview renders the staged draft as sanitized HTML.
func (h *ContentHandler) HandlePreview(w http.ResponseWriter, r *http.Request) error {
	_, workflow, err := h.resolve(r)
	if err != nil {
		return err
	}

	html, err := workflow.Preview()
	if err != nil {
		return workflowHTTPError(err)
	}

	webutil.RespondWithHTML(w, http.StatusOK, html)
	return nil
}

// HandleWorkflowStatus reports the workflow's current state and which
// operations it permits.
func (h *ContentHandler) HandleWorkflowStatus(w http.ResponseWriter, r *http.Request) error {
	_, workflow, err := h.resolve(r)
	if err != nil {
		return err
	}
	webutil.RespondWithJSON(w, http.StatusOK, workflow.Snapshot())
	return nil
}

// HandleReset abandons the staged or published draft and returns to Idle.
func (h *ContentHandler) HandleReset(w http.ResponseWriter, r *http.Request) error {
	contentType, workflow, err := h.resolve(r)
	if err != nil {
		return err
	}
	workflow.Reset()
	log.Printf("INFO: %s workflow reset", contentType)
	webutil.RespondWithJSON(w, http.StatusOK, workflow.Snapshot())
	return nil
}

// HandleList returns summaries of published content, newest first. An
// optional ?q= term filters by title, author, or category.
func (h *ContentHandler) HandleList(w http.ResponseWriter, r *http.Request) error {
	contentType, _, err := h.resolve(r)
	if err != nil {
		return err
	}

	summaries, err := h.repo.List(r.Context(), h.descriptor(contentType), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("ERROR: Failed to list %s content: %v", contentType, err)
		return webutil.ErrInternalServerWrap("Failed to list content", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, summaries)
	return nil
}

// HandleGet returns one published record by slug.
func (h *ContentHandler) HandleGet(w http.ResponseWriter, r *http.Request) error {
	contentType, _, err := h.resolve(r)
	if err != nil {
		return err
	}

	slug := chi.URLParam(r, "slug")
	record, err := h.repo.GetBySlug(r.Context(), h.descriptor(contentType), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound(fmt.Sprintf("No published %s with slug %q", contentType, slug))
		}
		log.Printf("ERROR: Failed to get %s %q: %v", contentType, slug, err)
		return webutil.ErrInternalServerWrap("Failed to retrieve content", err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, record)
	return nil
}

// HandleDelete removes a published record and, best effort, its stored
// source document and markdown. Storage cleanup failures are logged, not
// surfaced; the record deletion is what the response reports.
func (h *ContentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) error {
	contentType, _, err := h.resolve(r)
	if err != nil {
		return err
	}
	desc := h.descriptor(contentType)

	slug := chi.URLParam(r, "slug")
	record, err := h.repo.GetBySlug(r.Context(), desc, slug)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Printf("ERROR: Failed to load %s %q before delete: %v", contentType, slug, err)
		return webutil.ErrInternalServerWrap("Failed to delete content", err)
	}

	if err := h.repo.Delete(r.Context(), desc, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound(fmt.Sprintf("No published %s with slug %q", contentType, slug))
		}
		log.Printf("ERROR: Failed to delete %s %q: %v", contentType, slug, err)
		return webutil.ErrInternalServerWrap("Failed to delete content", err)
	}

	if record != nil {
		paths := []string{fmt.Sprintf("%s/%s.md", slug, slug)}
		if record.SourceFile != "" {
			paths = append(paths, record.SourceFile)
		}
		if err := h.store.Remove(r.Context(), desc.Bucket, paths); err != nil {
			log.Printf("WARN: Failed to remove stored objects for %s %q: %v", contentType, slug, err)
		}
	}

	log.Printf("INFO: %s deleted: slug=%s", contentType, slug)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// workflowHTTPError translates publishing-layer failures into HTTP
// responses. Transition violations are conflicts; upstream (storage,
// conversion) failures are gateway-class; everything else is internal.
func workflowHTTPError(err error) error {
	if errors.Is(err, publishing.ErrInvalidTransition) {
		return webutil.ErrConflictWrap(err.Error(), err)
	}

	switch publishing.KindOf(err) {
	case publishing.KindStorageMisconfigured:
		return webutil.ErrServiceUnavailableWrap(err.Error(), err)
	case publishing.KindUploadFailed, publishing.KindConversionFailed, publishing.KindDownloadFailed:
		return webutil.ErrBadGatewayWrap(err.Error(), err)
	case publishing.KindSchemaMismatch, publishing.KindPersistenceFailed, publishing.KindPreviewFailed:
		return webutil.ErrInternalServerWrap(err.Error(), err)
	}
	return err
}
