package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/application/annotation"
	"github.com/regcat-io/regcat/internal/domain/glossary"
)

// AnnotationService is the slice of the annotation application service the
// handler needs.
type AnnotationService interface {
	Search(ctx context.Context, annotationType glossary.AnnotationType, entityID, documentID uuid.UUID) (*annotation.SearchResult, error)
	Create(ctx context.Context, in annotation.CreateInput) (*annotation.Annotation, error)
	Delete(ctx context.Context, worklogID uuid.UUID) error
}

// AnnotationHandler serves the annotator-store protocol the review
// frontend's highlighter speaks.  Routes are scoped by annotation type,
// entity and document so the store holds one annotation set per pane.
type AnnotationHandler struct {
	service AnnotationService
}

// NewAnnotationHandler builds the annotator-store handler.
func NewAnnotationHandler(service AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{service: service}
}

// Root answers the store's handshake with the fixed metadata document.
func (h *AnnotationHandler) Root(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(annotation.Metadata))
}

// Search lists the annotations for one (type, entity, document) scope.
func (h *AnnotationHandler) Search(c *gin.Context) {
	annotationType, entityID, documentID, ok := h.scope(c)
	if !ok {
		return
	}
	result, err := h.service.Search(c.Request.Context(), annotationType, entityID, documentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// createAnnotationRequest is the annotator client's create body.
type createAnnotationRequest struct {
	Quote    string             `json:"quote"`
	Text     string             `json:"text"`
	Rejected bool               `json:"rejected"`
	Ranges   []annotation.Range `json:"ranges"`
}

// Create records a manual annotation and mirrors accepted spans into the
// catalogue's offset records.
func (h *AnnotationHandler) Create(c *gin.Context) {
	annotationType, entityID, documentID, ok := h.scope(c)
	if !ok {
		return
	}
	user := requestUser(c)
	if user == "" {
		badRequest(c, "annotation user is required")
		return
	}

	var req createAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed annotation body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), annotation.CreateInput{
		Type:       annotationType,
		EntityID:   entityID,
		DocumentID: documentID,
		User:       user,
		Rejected:   req.Rejected,
		Quote:      req.Quote,
		Ranges:     req.Ranges,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Delete removes an annotation and its mirrored offset record.
func (h *AnnotationHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "annotationID")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnnotationHandler) scope(c *gin.Context) (glossary.AnnotationType, uuid.UUID, uuid.UUID, bool) {
	annotationType, err := glossary.ParseAnnotationType(c.Param("annotationType"))
	if err != nil {
		respondError(c, err)
		return "", uuid.Nil, uuid.Nil, false
	}
	entityID, ok := uuidParam(c, "entityID")
	if !ok {
		return "", uuid.Nil, uuid.Nil, false
	}
	documentID, ok := uuidParam(c, "documentID")
	if !ok {
		return "", uuid.Nil, uuid.Nil, false
	}
	return annotationType, entityID, documentID, true
}

// requestUser resolves the acting reviewer.  The frontend forwards the
// session user in the X-User header; the query parameter is the curl
// escape hatch.
func requestUser(c *gin.Context) string {
	if user := c.GetHeader("X-User"); user != "" {
		return user
	}
	return c.Query("user")
}

//Personal.AI order the ending
