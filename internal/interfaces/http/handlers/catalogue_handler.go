package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/application/catalogue"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/search/opensearch"
)

// CatalogueService is the slice of the catalogue application service the
// browse and verdict endpoints need.
type CatalogueService interface {
	ListConcepts(ctx context.Context, q catalogue.ConceptQuery) (*catalogue.ConceptPage, error)
	GetConcept(ctx context.Context, id uuid.UUID) (*catalogue.ConceptDetail, error)
	ListObligations(ctx context.Context, q catalogue.ObligationQuery) (*catalogue.ObligationPage, error)
	DocumentObligations(ctx context.Context, documentID uuid.UUID) (*catalogue.DocumentObligationView, error)
	DocumentHighlights(ctx context.Context, documentID uuid.UUID, kind catalogue.HighlightKind) (*opensearch.HighlightDocument, error)
	AcceptanceValues() []glossary.AcceptanceValue
	EntityAcceptance(ctx context.Context, kind glossary.EntityKind, entityID uuid.UUID) ([]*glossary.AcceptanceState, error)
	SetVerdict(ctx context.Context, in catalogue.VerdictInput) error
}

// CatalogueHandler serves concept and obligation browsing plus acceptance
// verdicts.
type CatalogueHandler struct {
	service CatalogueService
}

// NewCatalogueHandler builds the browse/verdict handler.
func NewCatalogueHandler(service CatalogueService) *CatalogueHandler {
	return &CatalogueHandler{service: service}
}

// ListConcepts handles GET /concepts.
func (h *CatalogueHandler) ListConcepts(c *gin.Context) {
	limit, offset := pagination(c)
	q := catalogue.ConceptQuery{
		Keyword: c.Query("keyword"),
		Version: c.Query("version"),
		Limit:   limit,
		Offset:  offset,
	}
	if v := c.Query("document"); v != "" {
		docID, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid document identifier")
			return
		}
		q.DocumentID = &docID
	}

	page, err := h.service.ListConcepts(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetConcept handles GET /concepts/:conceptID.
func (h *CatalogueHandler) GetConcept(c *gin.Context) {
	id, ok := uuidParam(c, "conceptID")
	if !ok {
		return
	}
	detail, err := h.service.GetConcept(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// ListObligations handles GET /obligations.
func (h *CatalogueHandler) ListObligations(c *gin.Context) {
	limit, offset := pagination(c)
	q := catalogue.ObligationQuery{
		Keyword: c.Query("keyword"),
		Version: c.Query("version"),
		Limit:   limit,
		Offset:  offset,
	}
	if v := c.Query("document"); v != "" {
		docID, err := uuid.Parse(v)
		if err != nil {
			badRequest(c, "invalid document identifier")
			return
		}
		q.DocumentID = &docID
	}

	page, err := h.service.ListObligations(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// DocumentObligations handles GET /documents/:documentID/obligations, the
// assembled graph view.
func (h *CatalogueHandler) DocumentObligations(c *gin.Context) {
	id, ok := uuidParam(c, "documentID")
	if !ok {
		return
	}
	view, err := h.service.DocumentObligations(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DocumentHighlights handles GET /documents/:documentID/highlights/:layer,
// the indexed text plus highlight spans for one annotation layer.
func (h *CatalogueHandler) DocumentHighlights(c *gin.Context) {
	id, ok := uuidParam(c, "documentID")
	if !ok {
		return
	}
	kind, err := catalogue.ParseHighlightKind(c.Param("layer"))
	if err != nil {
		respondError(c, err)
		return
	}
	doc, err := h.service.DocumentHighlights(c.Request.Context(), id, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// AcceptanceValues handles GET /acceptance/values.
func (h *CatalogueHandler) AcceptanceValues(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.AcceptanceValues())
}

// EntityAcceptance handles GET /acceptance/:entityKind/:entityID.
func (h *CatalogueHandler) EntityAcceptance(c *gin.Context) {
	kind, ok := entityKindParam(c)
	if !ok {
		return
	}
	entityID, ok := uuidParam(c, "entityID")
	if !ok {
		return
	}
	states, err := h.service.EntityAcceptance(c.Request.Context(), kind, entityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, states)
}

// verdictRequest is the acceptance update body.
type verdictRequest struct {
	Value glossary.AcceptanceValue `json:"value"`
}

// SetVerdict handles POST /acceptance/:entityKind/:entityID.
func (h *CatalogueHandler) SetVerdict(c *gin.Context) {
	kind, ok := entityKindParam(c)
	if !ok {
		return
	}
	entityID, ok := uuidParam(c, "entityID")
	if !ok {
		return
	}
	user := requestUser(c)
	if user == "" {
		badRequest(c, "verdict user is required")
		return
	}

	var req verdictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed verdict body")
		return
	}

	err := h.service.SetVerdict(c.Request.Context(), catalogue.VerdictInput{
		Kind:     kind,
		EntityID: entityID,
		UserID:   user,
		Value:    req.Value,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func entityKindParam(c *gin.Context) (glossary.EntityKind, bool) {
	switch kind := glossary.EntityKind(c.Param("entityKind")); kind {
	case glossary.EntityConcept, glossary.EntityObligation, glossary.EntityDocument:
		return kind, true
	default:
		badRequest(c, "unknown entity kind")
		return "", false
	}
}

//Personal.AI order the ending
