package mirror

import (
	"context"
	"fmt"
	"net/http"

	"encore.dev/beta/auth"

	"github.com/webhookdb/mirror/mirror/business/dispatch"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/ratelimit"
)

// LoadParams are the query options of the single-entity load endpoints.
type LoadParams struct {
	// Children also syncs related entities. It forces the work onto the task queue.
	Children bool `query:"children"`
	Inline   bool `query:"inline"`
}

type LoadResponse struct {
	Status             int    `encore:"httpstatus" json:"-"`
	Location           string `header:"Location" json:"-"`
	RateLimitLimit     string `header:"X-RateLimit-Limit" json:"-"`
	RateLimitRemaining string `header:"X-RateLimit-Remaining" json:"-"`
	RateLimitReset     string `header:"X-RateLimit-Reset" json:"-"`

	Message string            `json:"message"`
	Task    *model.TaskHandle `json:"task,omitempty"`
	Result  *model.TaskResult `json:"result,omitempty"`
}

func (r *LoadResponse) SetRateLimitHeader(name, value string) {
	switch name {
	case ratelimit.HeaderLimit:
		r.RateLimitLimit = value
	case ratelimit.HeaderRemaining:
		r.RateLimitRemaining = value
	case ratelimit.HeaderReset:
		r.RateLimitReset = value
	}
}

const headerLocation = "Location"

func (r *LoadResponse) ResponseFraming() (int, map[string]string) {
	headers := make(map[string]string)
	for name, value := range map[string]string{
		headerLocation:            r.Location,
		ratelimit.HeaderLimit:     r.RateLimitLimit,
		ratelimit.HeaderRemaining: r.RateLimitRemaining,
		ratelimit.HeaderReset:     r.RateLimitReset,
	} {
		if value != "" {
			headers[name] = value
		}
	}
	return r.Status, headers
}

func (r *LoadResponse) RestoreFraming(status int, headers map[string]string) {
	r.Status = status
	for name, value := range headers {
		if name == headerLocation {
			r.Location = value
			continue
		}
		r.SetRateLimitHeader(name, value)
	}
}

// load runs one dispatch and renders its outcome, relaying the quota headers of any
// upstream call the dispatch made inline.
func (s *Service) load(ctx context.Context, run func(ctx context.Context) (*dispatch.Outcome, error)) (*LoadResponse, error) {
	ctx, rec := ratelimit.WithRecorder(ctx)
	outcome, err := run(ctx)
	if err != nil {
		return nil, s.toAPIError(err, rec.Last())
	}

	resp := &LoadResponse{}
	s.governor.Propagate(rec.Last(), resp)

	switch outcome.Status {
	case dispatch.StatusQueued:
		resp.Status = http.StatusAccepted
		resp.Message = "queued"
		resp.Task = outcome.Handle
		resp.Location = taskLocation(outcome.Handle.ID)
	default:
		resp.Status = http.StatusOK
		resp.Message = "success"
		resp.Result = outcome.Result
	}
	return resp, nil
}

func taskLocation(id string) string {
	return fmt.Sprintf("/tasks/%s", id)
}

// requestorID is the authenticated caller, or empty for anonymous requests.
func requestorID() string {
	if uid, ok := auth.UserID(); ok {
		return string(uid)
	}
	return ""
}
