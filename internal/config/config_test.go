package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "warning" {
		t.Errorf("default mode should be warning, got %s", cfg.Mode)
	}
	if len(cfg.Architecture.Layers) != 4 {
		t.Fatalf("expected 4 layers, got %d", len(cfg.Architecture.Layers))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLayerByName(t *testing.T) {
	cfg := DefaultConfig()

	repo := cfg.Architecture.LayerByName("repository")
	if repo == nil {
		t.Fatal("repository layer should exist")
	}
	if len(repo.Prohibited) != 3 {
		t.Errorf("unexpected prohibited list: %v", repo.Prohibited)
	}

	if cfg.Architecture.LayerByName("gateway") != nil {
		t.Error("unknown layer should return nil")
	}
}

func TestValidateRejectsBadMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = "strict"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown mode")
	}
}

func TestValidateRejectsDuplicateLayers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Architecture.Layers = append(cfg.Architecture.Layers, LayerDefinition{Name: "model"})
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for duplicate layer")
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mergegate.yaml")
	content := "mode: error\nparallel: true\noutput:\n  format: json\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode != "error" {
		t.Errorf("expected error mode, got %s", cfg.Mode)
	}
	if !cfg.Parallel {
		t.Error("parallel should be true")
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected json format, got %s", cfg.Output.Format)
	}
	// Values absent from the file keep defaults
	if len(cfg.Architecture.Layers) != 4 {
		t.Errorf("layer defaults should survive partial config, got %d layers", len(cfg.Architecture.Layers))
	}
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mergegate.yaml")
	if err := os.WriteFile(path, []byte("mode: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed config")
	}
}

func TestYAMLTemplateStaysLoadable(t *testing.T) {
	cfg, err := ParseYAMLTemplate()
	if err != nil {
		t.Fatalf("template should parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("template config should validate: %v", err)
	}
	if cfg.Mode != "warning" {
		t.Errorf("template mode should be warning, got %s", cfg.Mode)
	}
}

func TestGenerateTemplate(t *testing.T) {
	yamlTpl, err := GenerateTemplate(".mergegate.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if yamlTpl != YAMLTemplate {
		t.Error("yaml target should get the documented template")
	}

	jsonTpl, err := GenerateTemplate("mergegate.config.json")
	if err != nil {
		t.Fatal(err)
	}
	if len(jsonTpl) == 0 || jsonTpl[0] != '{' {
		t.Error("json target should get a JSON document")
	}
}
