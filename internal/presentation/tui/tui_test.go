package tui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(60)
	require.NoError(t, err)

	out, err := render("# Rotation Constraint\n\n- Hips\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Rotation Constraint")
	assert.Contains(t, out, "Hips")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "0.1.0")
	assert.Contains(t, buf.String(), "constraint by humanoid 0.1.0")
}
