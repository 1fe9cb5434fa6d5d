package email

import (
	"testing"

	"github.com/deppfellow/devevent/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_BookingConfirmation(t *testing.T) {
	html, err := Render(TemplateBookingConfirmation, BookingConfirmationData{
		Email:     "ada@example.com",
		BookingID: "b-1",
		Event: EventDetails{
			Title: "Go <Conf>",
			Date:  "2025-11-07",
			Time:  "09:30",
			URL:   "https://devevent.dev/events/go-conf",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Go &lt;Conf&gt;")
	assert.Contains(t, html, "ada@example.com")
	assert.Contains(t, html, "2025-11-07")
	assert.Contains(t, html, `href="https://devevent.dev/events/go-conf"`)
	assert.Contains(t, html, "b-1")
}

func TestPreview_AllTemplates(t *testing.T) {
	for name := range PreviewData {
		html, err := Preview(name)
		require.NoError(t, err, name)
		assert.Contains(t, html, "React Summit 2025", name)
	}

	_, err := Preview("welcome")
	assert.Error(t, err)
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render("missing", nil)
	assert.Error(t, err)
}

func TestClient_EventURL(t *testing.T) {
	logger := zerolog.Nop()
	c := NewClient(&config.Config{Integration: config.IntegrationConfig{
		ResendAPIKey: "re_test",
		AppURL:       "https://devevent.dev/",
	}}, &logger)

	assert.Equal(t, "https://devevent.dev/events/react-summit", c.EventURL("react-summit"))
}
