package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"rwa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis keys behind the health dashboard.
const (
	KeyReqTotal  = "health:api:req_total"
	KeyReqErrors = "health:api:req_errors"
	KeyResTime   = "health:api:res_time_total"
	KeyResCount  = "health:api:res_count"
	KeyStartTime = "health:api:start_time"
	KeyLastReq   = "health:api:last_request"
	KeyErrorLog  = "health:api:error_log"
)

const errorLogSize = 50

// ErrorLogEntry is one record in the KeyErrorLog list.
type ErrorLogEntry struct {
	Time    time.Time `json:"time"`
	TraceID string    `json:"trace_id"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	Error   string    `json:"error,omitempty"`
}

// HealthMarker records request counters in Redis, skipping the dashboard, /health* and favicon.
// Responses with status >= 500 are also pushed to a capped error log.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		ctx := context.Background()
		lastReq, _ := json.Marshal(map[string]interface{}{
			"time":   start.UTC(),
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})
		_, _ = rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.SetNX(ctx, KeyStartTime, start.UnixMilli(), 0)
			p.Set(ctx, KeyLastReq, lastReq, 0)
			p.Incr(ctx, KeyReqTotal)
			return nil
		})

		err := c.Next()

		status := responseStatus(c, err)
		_, perr := rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Incr(ctx, KeyResCount)
			p.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
			if status >= fiber.StatusInternalServerError {
				p.Incr(ctx, KeyReqErrors)
				entry := ErrorLogEntry{
					Time:    start.UTC(),
					TraceID: GetTraceID(c),
					Method:  c.Method(),
					Path:    path,
					Status:  status,
				}
				if err != nil {
					entry.Error = err.Error()
				}
				b, _ := json.Marshal(entry)
				p.LPush(ctx, KeyErrorLog, b)
				p.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
			}
			return nil
		})
		if perr != nil {
			log.Debug().Err(perr).Msg("health marker: redis write failed")
		}
		return err
	}
}

// responseStatus is the status the client will see once the global error handler has run.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return response.StatusFor(err)
}
