package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-convo/internal/pkg/auth"
	chat "go-convo/internal/pkg/chat/application/domain"
	"go-convo/internal/pkg/chat/application/usecase"

	"github.com/gin-gonic/gin"
)

const defaultRequestTimeout = 5 * time.Second

// Env is shared by every controller: use case collaborators plus a per-request time budget.
type Env struct {
	Deps    usecase.Deps
	Timeout time.Duration
}

func (e Env) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return e.withTimeout(c.Request.Context())
}

func (e Env) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	t := e.Timeout
	if t <= 0 {
		t = defaultRequestTimeout
	}
	return context.WithTimeout(ctx, t)
}

// decodeID turns an external identifier into an internal one.
func (e Env) decodeID(external string) (string, error) {
	id, err := e.Deps.Codec.Decode(external)
	if err != nil {
		return "", chat.Errorf(chat.KindMalformedIdentifier, "malformed identifier %q", external)
	}
	return id, nil
}

func (e Env) decodeIDs(external []string) ([]string, error) {
	out := make([]string, len(external))
	for i, s := range external {
		id, err := e.decodeID(s)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

func currentUser(c *gin.Context) string {
	return auth.UserID(c.Request.Context())
}

var statusByKind = map[chat.Kind]int{
	chat.KindInvalidMembership:             http.StatusBadRequest,
	chat.KindNotAuthorized:                 http.StatusForbidden,
	chat.KindNotAParticipant:               http.StatusForbidden,
	chat.KindDuplicateParticipant:          http.StatusConflict,
	chat.KindSelfRemovalByCreatorForbidden: http.StatusConflict,
	chat.KindPartialMatchFailure:           http.StatusConflict,
	chat.KindPersistenceFailure:            http.StatusInternalServerError,
	chat.KindMalformedIdentifier:           http.StatusBadRequest,
	chat.KindNotFound:                      http.StatusNotFound,
	chat.KindInvalidInput:                  http.StatusBadRequest,
}

// writeError maps use case errors to {code, error[, matched, modified]}.
// Anything unclassified is reported as a persistence failure without leaking its text.
func (e Env) writeError(c *gin.Context, err error) {
	var ce *chat.Error
	if !errors.As(err, &ce) {
		ce = &chat.Error{Kind: chat.KindPersistenceFailure, Err: err}
	}
	status, ok := statusByKind[ce.Kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		e.Deps.Log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"code": ce.Code(), "error": "internal error"})
		return
	}
	body := gin.H{"code": ce.Code(), "error": ce.Message}
	if ce.Kind == chat.KindPartialMatchFailure {
		body["matched"] = ce.Matched
		body["modified"] = ce.Modified
	}
	c.JSON(status, body)
}

// badRequest reports a body that could not be bound.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": string(chat.KindInvalidInput), "error": err.Error()})
}
