package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/application/catalogue"
	"github.com/regcat-io/regcat/internal/domain/document"
)

// DocumentService is the slice of the catalogue service the document
// endpoints need.
type DocumentService interface {
	ListDocuments(ctx context.Context, q catalogue.DocumentQuery) (*catalogue.DocumentPage, error)
	GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error)
	AddComment(ctx context.Context, documentID uuid.UUID, user, value string) (*document.Comment, error)
	Comments(ctx context.Context, documentID uuid.UUID) ([]*document.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// ExtractionDispatcher queues extraction jobs onto the pipeline topics.
type ExtractionDispatcher interface {
	DispatchDocument(ctx context.Context, documentID uuid.UUID, pipeline string, force bool) error
	DispatchWebsite(ctx context.Context, websiteID uuid.UUID, pipeline string, force bool) (int, error)
}

// DocumentHandler serves document browsing, reviewer comments, and manual
// extraction triggers.
type DocumentHandler struct {
	service    DocumentService
	dispatcher ExtractionDispatcher
}

// NewDocumentHandler builds the document handler.  The dispatcher may be nil
// when the API runs without a broker; the trigger endpoints then 503.
func NewDocumentHandler(service DocumentService, dispatcher ExtractionDispatcher) *DocumentHandler {
	return &DocumentHandler{service: service, dispatcher: dispatcher}
}

// List handles GET /documents.
func (h *DocumentHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	q := catalogue.DocumentQuery{
		Keyword: c.Query("keyword"),
		Celex:   c.Query("celex"),
		Limit:   limit,
		Offset:  offset,
	}
	if v := c.Query("website"); v != "" {
		siteID, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid website identifier")
			return
		}
		q.WebsiteID = &siteID
	}
	switch c.Query("validation") {
	case "":
	case "pending":
		pending := true
		q.Unvalidated = &pending
	case "done":
		pending := false
		q.Unvalidated = &pending
	default:
		badRequest(c, "validation filter must be pending or done")
		return
	}

	page, err := h.service.ListDocuments(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /documents/:documentID.
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "documentID")
	if !ok {
		return
	}
	doc, err := h.service.GetDocument(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// commentRequest is the reviewer comment body.
type commentRequest struct {
	Value string `json:"value"`
}

// AddComment handles POST /documents/:documentID/comments.
func (h *DocumentHandler) AddComment(c *gin.Context) {
	id, ok := uuidParam(c, "documentID")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed comment body")
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), id, requestUser(c), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Comments handles GET /documents/:documentID/comments.
func (h *DocumentHandler) Comments(c *gin.Context) {
	id, ok := uuidParam(c, "documentID")
	if !ok {
		return
	}
	comments, err := h.service.Comments(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// DeleteComment handles DELETE /documents/comments/:commentID.
func (h *DocumentHandler) DeleteComment(c *gin.Context) {
	id, ok := uuidParam(c, "commentID")
	if !ok {
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// dispatchResponse reports how many extraction jobs were queued.
type dispatchResponse struct {
	Dispatched int `json:"dispatched"`
}

// Extract handles POST /documents/:documentID/extract/:pipeline.
func (h *DocumentHandler) Extract(c *gin.Context) {
	if h.dispatcher == nil {
		respondError(c, errNoDispatcher())
		return
	}
	id, ok := uuidParam(c, "documentID")
	if !ok {
		return
	}
	err := h.dispatcher.DispatchDocument(c.Request.Context(), id, c.Param("pipeline"), forceQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dispatchResponse{Dispatched: 1})
}

// ExtractWebsite handles POST /websites/:websiteID/extract/:pipeline, the
// chunked fan-out over every accepted document of a source.
func (h *DocumentHandler) ExtractWebsite(c *gin.Context) {
	if h.dispatcher == nil {
		respondError(c, errNoDispatcher())
		return
	}
	id, ok := uuidParam(c, "websiteID")
	if !ok {
		return
	}
	n, err := h.dispatcher.DispatchWebsite(c.Request.Context(), id, c.Param("pipeline"), forceQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dispatchResponse{Dispatched: n})
}

func forceQuery(c *gin.Context) bool {
	return c.Query("force") == "true"
}

//Personal.AI order the ending
