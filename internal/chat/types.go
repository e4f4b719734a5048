package chat

import (
	"context"
	"time"

	"orderbot/internal/models"
)

// Request is the body of POST /api/chat
type Request struct {
	Message string            `json:"message"`
	Menu    []models.MenuItem `json:"menu"`
}

// Response is the reply of the chat service
type Response struct {
	Response        string            `json:"response"`
	RecommendedMenu []models.MenuItem `json:"recommendedMenu"`
}

// Service interprets free text against the catalog.
type Service interface {
	Chat(ctx context.Context, req Request) (*Response, error)
}

// Result carries the outcome of one call across the async boundary.
// Exactly one of Reply and Err is set.
type Result struct {
	Reply   *Response
	Err     error
	Elapsed time.Duration
}

// OK reports whether the call succeeded
func (r Result) OK() bool {
	return r.Err == nil && r.Reply != nil
}

// Do runs a single call and packs the outcome into a Result.
func Do(ctx context.Context, svc Service, req Request) Result {
	start := time.Now()
	reply, err := svc.Chat(ctx, req)
	res := Result{Reply: reply, Err: err, Elapsed: time.Since(start)}
	if err == nil && reply == nil {
		res.Err = ErrEmptyReply
	}
	if res.Err != nil {
		res.Reply = nil
	}
	return res
}
