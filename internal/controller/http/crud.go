// Package http contains the gin controllers. The CRUD type provides the
// generic handler set every resource controller builds on; controllers add
// their resource-specific endpoints beside it.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbound/trailbound-go/internal/domain/repository"
	"github.com/trailbound/trailbound-go/internal/dto/response"
	"github.com/trailbound/trailbound-go/internal/middleware"
	"github.com/trailbound/trailbound-go/internal/query"
	apperrors "github.com/trailbound/trailbound-go/pkg/errors"
)

// Hook runs after a successful mutation, before the response is written.
// The rating recomputation trigger rides on these; a hook failure fails
// the request.
type Hook[T any] func(ctx context.Context, doc *T) error

// BaseFilter derives pinned filter conditions from the request, e.g. the
// tour ID on a nested review route. Client query parameters never override
// what it returns. An error rejects the request before any query runs.
type BaseFilter func(c *gin.Context) (bson.M, error)

// CRUD bundles the generic handlers over one entity store.
type CRUD[T any] struct {
	store repository.Store[T]
}

// NewCRUD creates the generic handler set for a store.
func NewCRUD[T any](store repository.Store[T]) *CRUD[T] {
	return &CRUD[T]{store: store}
}

// GetAll lists documents through the query builder: filtering, sorting,
// projection and pagination all come from the URL.
func (h *CRUD[T]) GetAll(base BaseFilter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pinned bson.M
		if base != nil {
			var err error
			if pinned, err = base(c); err != nil {
				middleware.Abort(c, err)
				return
			}
		}

		filter, opts := query.New(c.Request.URL.Query(), pinned).
			Filter().Sort().Select().Paginate().
			Definition()

		docs, err := h.store.Find(c.Request.Context(), filter, opts)
		if err != nil {
			middleware.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, response.List(docs))
	}
}

// GetOne fetches a single document by its URL ID.
func (h *CRUD[T]) GetOne() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		doc, err := h.store.FindByID(c.Request.Context(), id)
		if err != nil {
			middleware.Abort(c, notFoundWithID(err))
			return
		}
		c.JSON(http.StatusOK, response.OK(doc))
	}
}

// CreateOne binds and inserts a document. build turns the request into the
// entity; binding and validation failures belong to it.
func (h *CRUD[T]) CreateOne(build func(c *gin.Context) (*T, error), after Hook[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := build(c)
		if err != nil {
			middleware.Abort(c, err)
			return
		}
		if err := h.store.Create(c.Request.Context(), doc); err != nil {
			middleware.Abort(c, err)
			return
		}
		if err := runHook(c, after, doc); err != nil {
			middleware.Abort(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OK(doc))
	}
}

// UpdateOne applies a partial update and returns the document as updated.
func (h *CRUD[T]) UpdateOne(patch func(c *gin.Context) (bson.M, error), after Hook[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		set, err := patch(c)
		if err != nil {
			middleware.Abort(c, err)
			return
		}

		doc, err := h.store.UpdateByID(c.Request.Context(), id, set)
		if err != nil {
			middleware.Abort(c, notFoundWithID(err))
			return
		}
		if err := runHook(c, after, doc); err != nil {
			middleware.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OK(doc))
	}
}

// DeleteOne removes a document. The hook receives the removed document so
// delete-side triggers know what vanished.
func (h *CRUD[T]) DeleteOne(after Hook[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		doc, err := h.store.DeleteByID(c.Request.Context(), id)
		if err != nil {
			middleware.Abort(c, notFoundWithID(err))
			return
		}
		if err := runHook(c, after, doc); err != nil {
			middleware.Abort(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func runHook[T any](c *gin.Context, hook Hook[T], doc *T) error {
	if hook == nil {
		return nil
	}
	return hook(c.Request.Context(), doc)
}

// parseID reads the :id parameter. A malformed ID aborts with the cast
// error, mirroring how an unparseable value can never match a document.
func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	raw := c.Param("id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		middleware.Abort(c, apperrors.InvalidField("_id", raw))
		return primitive.NilObjectID, false
	}
	return id, true
}

// notFoundWithID upgrades the generic not-found into the resource message
// clients see, keeping other errors untouched.
func notFoundWithID(err error) error {
	if apperrors.Is(err, apperrors.ErrNotFound) {
		return apperrors.ErrNotFound.WithMessage("No document found with that ID")
	}
	return err
}
