package health

import (
	"encoding/json"
	"strconv"
	"time"

	healthsvc "yardsale-board/internal/application/health"
	"yardsale-board/internal/middleware"
	"yardsale-board/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "yardsale-board"

// Handlers holds dependencies for health endpoints.
type Handlers struct {
	Checker  *healthsvc.Checker
	AdminKey string
}

// Reset clears health stats in Redis. Requires query key=ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" || key != h.AdminKey {
		return response.Unauthorized(c)
	}
	rdb := h.Checker.Rdb
	if rdb == nil {
		return response.Error(c, "Redis is not configured", fiber.StatusServiceUnavailable)
	}
	ctx := c.UserContext()
	if err := rdb.Del(ctx, middleware.HealthKeys...).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}
	if err := rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError)
	}
	return response.OK(c, fiber.Map{"success": true})
}

// JSON returns service status, runtime, traffic counters and dependencies.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	result := h.Checker.Collect(c.UserContext())
	code := fiber.StatusOK
	if result.Status != healthsvc.StatusOK {
		code = fiber.StatusServiceUnavailable
	}
	return response.JSON(c, code, fiber.Map{
		"service":      serviceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Errors returns the newest error log entries recorded by HealthMarker.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	if h.Checker.Rdb == nil {
		return c.JSON([]interface{}{})
	}
	entries, err := h.Checker.Rdb.LRange(c.UserContext(), middleware.KeyErrorLog, 0, middleware.ErrorLogSize-1).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON([]interface{}{})
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for _, s := range entries {
		var m map[string]interface{}
		if json.Unmarshal([]byte(s), &m) == nil {
			out = append(out, m)
		}
	}
	return c.JSON(out)
}
