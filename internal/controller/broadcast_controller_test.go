package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modernreader/orchestrator/internal/dto"
	"github.com/modernreader/orchestrator/internal/pkg/serverutils"
	"github.com/modernreader/orchestrator/pkg/device"
	"github.com/modernreader/orchestrator/pkg/mapping"
)

func newBroadcastTestApp() *fiber.App {
	registry := device.NewRegistry(time.Minute)
	broadcaster := device.NewBroadcaster(registry, mapping.New(), time.Second)
	c := NewBroadcastController(registry, broadcaster)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	c.RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// TestRegisterDevice_ThenBroadcastSucceeds exercises the seam the review
// flagged as unreachable: a device registers with real capabilities and an
// address, Fan-out binds an HTTP DevicePort for it, and a subsequent
// broadcast actually reaches the device instead of skipping or failing.
func TestRegisterDevice_ThenBroadcastSucceeds(t *testing.T) {
	vest := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer vest.Close()

	app := newBroadcastTestApp()

	registerResp := doJSON(t, app, http.MethodPost, "/devices/register", dto.RegisterDeviceRequest{
		DeviceID:     "vest-1",
		Class:        "haptic_vest",
		Capabilities: map[string]bool{"haptic": true},
		Addr:         vest.URL,
	})
	require.Equal(t, http.StatusOK, registerResp.StatusCode)

	broadcastResp := doJSON(t, app, http.MethodPost, "/api/broadcast-to-devices", dto.BroadcastRequest{
		Emotion:   "happy",
		Intensity: 0.7,
		Devices:   []string{"vest-1"},
	})
	require.Equal(t, http.StatusOK, broadcastResp.StatusCode)

	var out dto.BroadcastResponse
	require.NoError(t, json.NewDecoder(broadcastResp.Body).Decode(&out))
	assert.Equal(t, "success", string(out.Devices["vest-1"].Status))
}
