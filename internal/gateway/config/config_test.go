package config

import (
	"testing"
	"time"

	"screenforge/internal/tester"
)

// Load registers flags on the global FlagSet, so it can only run once per
// test binary.
func TestLoad(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PORT", "9999")
	t.Setenv("SCAN_TIMEOUT_SECONDS", "10")
	t.Setenv("APP_ENV", "local")
	t.Setenv("ARTIFACT_MINIO_ENDPOINT", "localhost:9000")

	cfg, err := Load()
	tester.NoErr(t, err)
	tester.Eq(t, cfg.Port, ":9999")
	tester.Eq(t, cfg.Model.APIKey, "test-key")
	tester.Eq(t, cfg.Model.ScanModel, "gemini-2.5-pro")
	tester.Eq(t, cfg.Pipeline.ScanTimeout, 10*time.Second)
	tester.Eq(t, cfg.Pipeline.AssembleTimeout, 180*time.Second)
	tester.True(t, cfg.Artifact.Enabled)
	tester.False(t, cfg.Artifact.UseSSL, "local env never uses SSL")
}

func TestSecondsEnv(t *testing.T) {
	t.Setenv("X_SECONDS", "42")
	tester.Eq(t, secondsEnv("X_SECONDS", 5), 42*time.Second)

	t.Setenv("X_SECONDS", "not-a-number")
	tester.Eq(t, secondsEnv("X_SECONDS", 5), 5*time.Second)

	t.Setenv("X_SECONDS", "-3")
	tester.Eq(t, secondsEnv("X_SECONDS", 5), 5*time.Second)

	tester.Eq(t, secondsEnv("X_UNSET_KEY", 7), 7*time.Second)
}

func TestFirstNonEmpty(t *testing.T) {
	tester.Eq(t, firstNonEmpty("", "  ", "b", "c"), "b")
	tester.Eq(t, firstNonEmpty("", ""), "")
}

func TestResolveArtifactEndpoint(t *testing.T) {
	t.Setenv("ARTIFACT_MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("ARTIFACT_S3_ENDPOINT", "s3.amazonaws.com")
	tester.Eq(t, resolveArtifactEndpoint("local"), "localhost:9000")
	tester.Eq(t, resolveArtifactEndpoint("production"), "s3.amazonaws.com")
}
