package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/who", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})
	app.Get("/ws/game/:gameId", EnsurePlayerID(), WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusSwitchingProtocols)
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
		status int
		body   string
	}{
		{"header", "/who", "alice", fiber.StatusOK, "alice"},
		{"query", "/who?playerId=bob", "", fiber.StatusOK, "bob"},
		{"header wins", "/who?playerId=bob", "alice", fiber.StatusOK, "alice"},
		{"missing", "/who", "", fiber.StatusUnauthorized, ""},
		{"blank", "/who", "   ", fiber.StatusUnauthorized, ""},
		{"too long", "/who", strings.Repeat("x", 65), fiber.StatusBadRequest, ""},
	}
	app := newApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.body != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.body {
					t.Errorf("body = %q, want %q", body, tt.body)
				}
			}
		})
	}
}

func TestWebSocketUpgradeRequiresHandshake(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest("GET", "/ws/game/g1?playerId=alice", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUpgradeRequired)
	}
}

func TestEnsurePlayerIDOutlivesRequest(t *testing.T) {
	var kept []string
	app := fiber.New()
	app.Get("/keep", EnsurePlayerID(), func(c *fiber.Ctx) error {
		kept = append(kept, c.Locals("playerID").(string))
		return c.SendStatus(fiber.StatusNoContent)
	})
	want := []string{"alice", "bobby", "zzzzz"}
	for _, id := range want {
		req := httptest.NewRequest("GET", "/keep", nil)
		req.Header.Set("X-Player-ID", id)
		if _, err := app.Test(req, -1); err != nil {
			t.Fatal(err)
		}
	}
	if strings.Join(kept, ",") != strings.Join(want, ",") {
		t.Errorf("ids kept across requests = %v, want %v", kept, want)
	}
}
