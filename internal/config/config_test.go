package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\nquiz:\n  questions_per_attempt: 3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 3, cfg.Quiz.QuestionsPerAttempt)
	require.Equal(t, 80, cfg.Quiz.SuccessPercent)
	require.Equal(t, 60, cfg.Quiz.PassPercent)
	require.Equal(t, "animation", cfg.Quiz.BankID)
	require.Equal(t, "quizHistory", cfg.History.Key)
	require.Equal(t, "quizMusicEnabled", cfg.History.AudioKey)
	require.Equal(t, 20, cfg.History.MaxEntries)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestTTLDuration(t *testing.T) {
	require.Equal(t, 5*time.Minute, TTLDuration("", 5*time.Minute))
	require.Equal(t, 30*time.Second, TTLDuration("30s", 5*time.Minute))
	require.Equal(t, 5*time.Minute, TTLDuration("soon", 5*time.Minute))
}
