// middleware/guard.go
package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stayhaven/stayhaven_backend/models"
	"github.com/stayhaven/stayhaven_backend/utils"
)

// AuditSpec is the event emitted after a guarded handler runs
type AuditSpec struct {
	Type        string
	Severity    string
	Description string
}

// GuardOptions configures the wrapper around a route's core handler
type GuardOptions struct {
	RateLimit *RateLimitConfig
	Audit     *AuditSpec
}

// Pipeline composes the route limiter and the audit sink around handlers
type Pipeline struct {
	limiter *RouteLimiter
	sink    *utils.AuditSink
}

// NewPipeline creates the request pipeline
func NewPipeline(limiter *RouteLimiter, sink *utils.AuditSink) *Pipeline {
	return &Pipeline{limiter: limiter, sink: sink}
}

// Guard wraps a core handler. Ordering is fixed: the rate-limit check runs
// first and short-circuits with 429 (plus a suspicious_activity event);
// then the handler; then the configured audit event, fire-and-forget. The
// handler's response is returned unchanged.
func (p *Pipeline) Guard(h echo.HandlerFunc, opts GuardOptions) echo.HandlerFunc {
	return func(c echo.Context) error {
		if opts.RateLimit != nil {
			allowed, retryAfter := p.limiter.Check(c, *opts.RateLimit)
			if !allowed {
				p.sink.Record(p.eventFromRequest(c, AuditSpec{
					Type:        models.EventSuspiciousActivity,
					Severity:    models.SeverityMedium,
					Description: "Rate limit exceeded on " + c.Path(),
				}))

				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return c.JSON(http.StatusTooManyRequests, models.Response{
					Status:  http.StatusTooManyRequests,
					Message: "Too many requests",
				})
			}
		}

		err := h(c)

		if opts.Audit != nil {
			p.sink.Record(p.eventFromRequest(c, *opts.Audit))
		}
		return err
	}
}

// Audit emits a one-off event derived from the request, outside Guard.
// Controllers use this for events whose description depends on the outcome.
func (p *Pipeline) Audit(c echo.Context, spec AuditSpec, metadata map[string]interface{}) {
	event := p.eventFromRequest(c, spec)
	for k, v := range metadata {
		event.Metadata[k] = v
	}
	p.sink.Record(event)
}

func (p *Pipeline) eventFromRequest(c echo.Context, spec AuditSpec) models.SecurityEvent {
	return models.SecurityEvent{
		Type:        spec.Type,
		Severity:    spec.Severity,
		Description: spec.Description,
		UserID:      GetUserID(c),
		UserEmail:   GetEmail(c),
		IPAddress:   c.RealIP(),
		UserAgent:   c.Request().UserAgent(),
		Metadata: map[string]interface{}{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
		},
	}
}
