// Package log writes one JSON object per event through the standard logger,
// so whatever log.SetOutput points at (stdout, a file, a test buffer) gets it.
package log

import (
	"log"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelAudit Level = "audit"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Event is the JSON shape of one log line. Request fields are empty for
// events raised outside a request.
type Event struct {
	Time   string         `json:"ts"`
	Level  Level          `json:"level"`
	Action string         `json:"action"`
	ReqID  string         `json:"req_id,omitempty"`
	Route  string         `json:"route,omitempty"`
	Status int            `json:"status,omitempty"`
	Err    string         `json:"err,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

var now = func() time.Time { return time.Now().UTC() }

func newEvent(level Level, c *fiber.Ctx, action string, err error, fields map[string]any) Event {
	ev := Event{Time: now().Format(time.RFC3339Nano), Level: level, Action: action, Fields: fields}
	if err != nil {
		ev.Err = err.Error()
	}
	if c == nil {
		return ev
	}
	ev.Route = c.Method() + " " + c.Path()
	ev.Status = c.Response().StatusCode()
	ev.ReqID, _ = c.Locals("requestid").(string)
	return ev
}

// Emit logs one event; c may be nil (startup, migrations).
func Emit(level Level, c *fiber.Ctx, action string, err error, fields map[string]any) {
	b, merr := json.Marshal(newEvent(level, c, action, err, fields))
	if merr != nil {
		// a field value goccy cannot encode; keep the action at least
		b, _ = json.Marshal(Event{Time: now().Format(time.RFC3339Nano), Level: LevelError, Action: "log.marshal", Err: merr.Error(), Fields: map[string]any{"for": action}})
	}
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { Emit(LevelInfo, c, action, nil, fields) }

func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	Emit(LevelAudit, c, action, nil, fields)
}

func Warn(c *fiber.Ctx, action string, err error, fields map[string]any) {
	Emit(LevelWarn, c, action, err, fields)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	Emit(LevelError, c, action, err, fields)
}
