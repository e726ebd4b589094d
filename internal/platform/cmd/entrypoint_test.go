package cmd

import (
	"context"
	"flag"
	"testing"
)

type testConfig struct {
	StoragePath string `env:"CMD_TEST_STORAGE" envDefault:"roller.db"`
	Transport   string `env:"CMD_TEST_TRANSPORT" envDefault:"stdio"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_STORAGE", "env.db")
	t.Setenv("CMD_TEST_TRANSPORT", "env-transport")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg := testConfig{}
	if err := ParseConfig(&cfg); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfg.StoragePath, "storage", cfg.StoragePath, "storage path")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "transport")

	if err := ParseArgs(fs, []string{"-storage", "flag.db"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.StoragePath != "flag.db" {
		t.Fatalf("expected flag value for storage, got %q", cfg.StoragePath)
	}
	if cfg.Transport != "env-transport" {
		t.Fatalf("expected env default transport, got %q", cfg.Transport)
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRejectsMissingInputs(t *testing.T) {
	if err := RunWithTelemetry(context.Background(), "", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected missing service error")
	}
	if err := RunWithTelemetry(context.Background(), ServiceRoller, nil); err == nil {
		t.Fatal("expected missing run function error")
	}
}

func TestRunWithTelemetryRunsService(t *testing.T) {
	t.Setenv("STORYTELLER_SPACE_OTEL_ENDPOINT", "")

	ran := false
	err := RunWithTelemetry(context.Background(), ServiceRoller, func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("run with telemetry: %v", err)
	}
	if !ran {
		t.Fatal("expected run function to execute")
	}
}
