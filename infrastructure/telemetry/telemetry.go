package telemetry

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/infrastructure/config"
)

// Capturer records product usage of this service itself.
type Capturer interface {
	Capture(distinctID, event string, properties map[string]any)
}

type payload struct {
	APIKey     string         `json:"api_key"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Client sends usage events to a capture endpoint in the background.
// Delivery failures are logged and dropped.
type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewClient(cfg config.TelemetryConfig) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.Host, "/") + "/capture/",
		apiKey:   cfg.APIKey,
		timeout:  cfg.Timeout,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

func (c *Client) Capture(distinctID, event string, properties map[string]any) {
	if !c.Enabled() {
		return
	}

	p := payload{
		APIKey:     c.apiKey,
		Event:      event,
		DistinctID: distinctID,
		Properties: properties,
		Timestamp:  time.Now().UTC(),
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.send(p); err != nil {
			slog.Warn("Failed to send telemetry", "event", event, "error", err)
		}
	}()
}

func (c *Client) send(p payload) error {
	agent := fiber.Post(c.endpoint).
		JSONEncoder(json.Marshal).
		JSON(p).
		Timeout(c.timeout)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errs[0]
	}
	if code >= fiber.StatusBadRequest {
		return fmt.Errorf("capture returned %d: %s", code, body)
	}
	return nil
}

// Close waits for in-flight captures.
func (c *Client) Close() {
	c.wg.Wait()
}

// Noop discards every capture.
type Noop struct{}

func (Noop) Capture(string, string, map[string]any) {}
