package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"React Summit 2025":        "react-summit-2025",
		"  Go -- Conf  ":           "go-conf",
		"Next.js Conf: Live!":      "nextjs-conf-live",
		"KubeCon + CloudNativeCon": "kubecon-cloudnativecon",
		"Hack_the_Planet":          "hacktheplanet",
		"Café Meetup":              "caf-meetup",
		"---":                      "",
	}

	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestSanitizeSlug(t *testing.T) {
	assert.Equal(t, "react-summit", SanitizeSlug("  React-Summit \n"))
}

func TestNormalizeDate(t *testing.T) {
	for _, in := range []string{"2025-11-07", "2025/11/07", "Nov 7, 2025", "November 7, 2025", "7 Nov 2025", "2025-11-07T10:00:00Z"} {
		got, err := NormalizeDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2025-11-07", got, in)
	}

	_, err := NormalizeDate("next friday")
	assert.Error(t, err)

	_, err = NormalizeDate("2025-02-30")
	assert.Error(t, err)
}

func TestNormalizeTime(t *testing.T) {
	tests := map[string]string{
		"10:00 AM": "10:00",
		"10:00am":  "10:00",
		"2:30 PM":  "14:30",
		"14:30":    "14:30",
		"09:15:59": "09:15",
		"12 PM":    "12:00",
		"12:05 AM": "00:05",
	}

	for in, want := range tests {
		got, err := NormalizeTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := NormalizeTime("25:00")
	assert.Error(t, err)
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"go", "cloud"}, NormalizeTags([]string{" Go ", "", "CLOUD", "go"}))
}

func TestTrimAll(t *testing.T) {
	assert.Equal(t, []string{"Intro", "Keynote"}, TrimAll([]string{" Intro", "  ", "Keynote "}))
}
