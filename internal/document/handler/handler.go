package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/Supraja1508/Backend/internal/apperr"
	"github.com/Supraja1508/Backend/internal/collections"
	"github.com/Supraja1508/Backend/internal/document/service"
	"github.com/Supraja1508/Backend/internal/schema"
	"github.com/Supraja1508/Backend/pkg/logger"
	"github.com/Supraja1508/Backend/pkg/middleware"
)

// reserved query parameters of the list endpoint; everything else filters
// listParams are the query keys that shape a listing. Every other key is an
// equality filter and may appear once.
var listParams = map[string]bool{"page": true, "limit": true, "sortBy": true, "order": true}

// Handler serves the collection and document API. Routes must sit behind
// middleware.AuthMiddleware.
type Handler struct {
	collections *collections.Service
	documents   *service.Service
	models      service.Resolver
}

// New wires the handler. models may be nil; when set, a new collection's
// storage accessor is registered right away.
func New(colls *collections.Service, docs *service.Service, models service.Resolver) *Handler {
	return &Handler{collections: colls, documents: docs, models: models}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/collections", h.createCollection)
	r.GET("/collections", h.listCollections)
	r.POST("/collections/:collectionId/documents", h.createDocument)
	r.GET("/collections/:collectionId/documents", h.listDocuments)
	r.GET("/collections/:collectionId/documents/:documentId", h.getDocument)
	r.PUT("/collections/:collectionId/documents/:documentId", h.updateDocument)
	r.DELETE("/collections/:collectionId/documents/:documentId", h.deleteDocument)
	r.POST("/collections/:collectionId/export", h.exportDocuments)
}

func (h *Handler) createCollection(c *gin.Context) {
	var req struct {
		Name   string          `json:"name"`
		Schema json.RawMessage `json:"schema"`
	}
	if err := decodeBody(c, &req); err != nil {
		writeError(c, apperr.InvalidInput("Name and valid schema required"), err.Error())
		return
	}
	var decl schema.Declaration
	raw := strings.TrimSpace(string(req.Schema))
	if raw != "" && raw != "null" {
		if err := json.Unmarshal(req.Schema, &decl); err != nil {
			writeError(c, apperr.InvalidInput("Name and valid schema required"), err.Error())
			return
		}
	}
	coll, err := h.collections.Create(c.Request.Context(), middleware.UserID(c), req.Name, decl)
	if err != nil {
		writeError(c, err, "")
		return
	}
	if h.models != nil {
		if _, err := h.models.Resolve(c.Request.Context(), coll); err != nil {
			logger.Warnf("collection %s created but model registration failed: %v", coll.ID.Hex(), err)
		}
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Collection created", "collection": coll})
}

func (h *Handler) listCollections(c *gin.Context) {
	list, err := h.collections.ListByOwner(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) listDocuments(c *gin.Context) {
	q := c.Request.URL.Query()
	req := service.ListRequest{
		Page:    q.Get("page"),
		Limit:   q.Get("limit"),
		SortBy:  q.Get("sortBy"),
		Order:   q.Get("order"),
		Filters: map[string]any{},
	}
	for k, vs := range q {
		if listParams[k] || len(vs) == 0 {
			continue
		}
		if len(vs) > 1 {
			writeError(c, apperr.InvalidInput("Duplicate filter parameter"), fmt.Sprintf("filter %q given %d times", k, len(vs)))
			return
		}
		req.Filters[k] = vs[0]
	}
	docs, err := h.documents.List(c.Request.Context(), c.Param("collectionId"), middleware.UserID(c), req)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *Handler) createDocument(c *gin.Context) {
	payload, err := decodeObject(c)
	if err != nil {
		writeError(c, apperr.InvalidInput("Request body must be a JSON object"), err.Error())
		return
	}
	doc, err := h.documents.Create(c.Request.Context(), c.Param("collectionId"), middleware.UserID(c), payload)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *Handler) getDocument(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), c.Param("collectionId"), c.Param("documentId"), middleware.UserID(c))
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) updateDocument(c *gin.Context) {
	payload, err := decodeObject(c)
	if err != nil {
		writeError(c, apperr.InvalidInput("Request body must be a JSON object"), err.Error())
		return
	}
	doc, err := h.documents.Update(c.Request.Context(), c.Param("collectionId"), c.Param("documentId"), middleware.UserID(c), payload)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) deleteDocument(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("collectionId"), c.Param("documentId"), middleware.UserID(c)); err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

func (h *Handler) exportDocuments(c *gin.Context) {
	if !h.documents.CanExport() {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Export is not configured", "details": "object storage (MINIO_ENDPOINT) is not set"})
		return
	}
	res, err := h.documents.Export(c.Request.Context(), c.Param("collectionId"), middleware.UserID(c))
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, res)
}

// decodeBody decodes a JSON body into v, keeping numbers as json.Number so
// they reach validation unrounded. An empty body leaves v untouched.
func decodeBody(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// decodeObject decodes a JSON object body. An empty body is an empty object.
func decodeObject(c *gin.Context) (map[string]any, error) {
	var payload map[string]any
	if err := decodeBody(c, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return payload, nil
}

// writeError renders err as {"error": ..., "details": ...} with the status
// of its kind. details overrides the error's own detail text when set.
func writeError(c *gin.Context, err error, details string) {
	status := apperr.HTTPStatus(err)
	msg := "Internal server error"
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Message
		if details == "" {
			details = ae.Details()
		}
	} else if details == "" {
		details = err.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		if details == "" {
			details = msg
		}
	}
	body := gin.H{"error": msg}
	if details != "" {
		body["details"] = details
	}
	c.AbortWithStatusJSON(status, body)
}
