package installer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/deskpilot/internal/config"
	"github.com/sandevgo/deskpilot/internal/providers/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstallState_Defaults(t *testing.T) {
	state := NewInstallState("/tmp/.env")

	assert.Equal(t, config.DefaultOllamaBaseURL, state.Settings.OllamaBaseURL)
	assert.Equal(t, 10*time.Second, state.Settings.ControlTimeout)
	assert.Empty(t, state.Settings.OllamaModel)
}

func TestApplyTelegramToken(t *testing.T) {
	state := NewInstallState("")

	assert.Error(t, applyTelegramToken("", state))
	assert.Error(t, applyTelegramToken("nocolon", state))
	require.NoError(t, applyTelegramToken("123:abc", state))
	assert.Equal(t, "123:abc", state.Settings.TelegramToken)
}

func TestApplyControlEndpoint(t *testing.T) {
	state := NewInstallState("")

	require.NoError(t, applyControlEndpoint("", state))
	assert.Empty(t, state.Settings.ControlEndpoint)

	assert.Error(t, applyControlEndpoint("ftp://pc/mcp", state))

	require.NoError(t, applyControlEndpoint("http://10.0.0.5:8080/mcp", state))
	assert.Equal(t, "http://10.0.0.5:8080/mcp", state.Settings.ControlEndpoint)
}

func TestApplyOllamaURL(t *testing.T) {
	state := NewInstallState("")

	require.NoError(t, applyOllamaURL("", state))
	assert.Equal(t, config.DefaultOllamaBaseURL, state.Settings.OllamaBaseURL)

	assert.Error(t, applyOllamaURL("localhost:11434", state))

	require.NoError(t, applyOllamaURL("http://gpu-box:11434", state))
	assert.Equal(t, "http://gpu-box:11434", state.Settings.OllamaBaseURL)
}

func TestInputStep_StaysOnInvalidValue(t *testing.T) {
	state := NewInstallState("")
	step := NewTelegramTokenStep()

	next, _ := step.Update(tea.KeyMsg{Type: tea.KeyEnter}, state, 80, 24)

	assert.Same(t, step, next)
	assert.Contains(t, step.View(state), "required")
}

func TestModelItems(t *testing.T) {
	items := modelItems([]llm.Model{{Name: "llama3.2:latest", Size: 2_000_000_000}})

	require.Len(t, items, 2)
	first := items[0].(item)
	assert.Equal(t, disableGenerationID, first.id)
	second := items[1].(item)
	assert.Equal(t, "llama3.2:latest", second.id)
	assert.Equal(t, "Size: 2.0 GB", second.desc)
}

func TestSaveSettings(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "runtime", ".env")
	settings := config.Settings{
		TelegramToken:  "123:abc",
		ControlTimeout: 15 * time.Second,
		OllamaBaseURL:  "http://localhost:11434",
		OllamaModel:    "llama3.2",
	}

	require.NoError(t, saveSettings(envPath, settings))

	info, err := os.Stat(envPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	values, err := godotenv.Read(envPath)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"CONTROL_TIMEOUT":    "15s",
		"OLLAMA_BASE_URL":    "http://localhost:11434",
		"OLLAMA_MODEL":       "llama3.2",
	}, values)
}

func TestSaveSettings_RefusesOverwrite(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("KEEP=1\n"), 0600))

	err := saveSettings(envPath, config.Settings{TelegramToken: "123:abc"})

	require.Error(t, err)
	data, _ := os.ReadFile(envPath)
	assert.Equal(t, "KEEP=1\n", string(data))
}
