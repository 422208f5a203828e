package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Chaque ligne porte le nom du service; ForInvoice y ajoute le numéro de
// facture pour corréler les étapes d'un même envoi.
func TestLogger_ChampsService_EtFacture(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "info", Service: "facturation-api", Writer: &buf})

	log.ForInvoice("2026-042").Info().Msg("envoi webhook N8N")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "facturation-api", line["service"])
	assert.Equal(t, "2026-042", line["facture"])
	assert.Equal(t, "envoi webhook N8N", line["message"])
}

// Le niveau configuré filtre les événements en dessous.
func TestLogger_NiveauFiltre(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Env: "production", Level: "warn", Writer: &buf})

	log.Info().Msg("ignoré")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("conservé")
	assert.Contains(t, buf.String(), "conservé")
}
