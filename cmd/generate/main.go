package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	engine "github.com/rxtech-lab/argo-breakout/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-breakout/internal/strategy/breakout"
	"gopkg.in/yaml.v2"
)

type schemaGenerator interface {
	GenerateSchemaJSON() (string, error)
}

type target struct {
	config     schemaGenerator
	schemaName string
	sampleName string
}

func main() {
	if err := generate("./config"); err != nil {
		log.Fatal(err)
	}
}

// generate writes the JSON schema and a sample YAML of the engine and the strategy configs into dir.
// Existing sample configs are left alone.
func generate(dir string) error {
	engineConfig := engine.EmptyConfig()
	strategyConfig := breakout.DefaultConfig()

	targets := []target{
		{config: &engineConfig, schemaName: "backtest-engine-v1-config.json", sampleName: "backtest-engine-v1-config.yaml"},
		{config: strategyConfig, schemaName: "breakout-strategy-config.json", sampleName: "breakout-strategy-config.yaml"},
	}

	for _, t := range targets {
		schemaPath := filepath.Join(dir, t.schemaName)
		samplePath := filepath.Join(dir, t.sampleName)

		if err := validatePaths(schemaPath, samplePath); err != nil {
			return err
		}

		if err := validateSchemaName(t.schemaName); err != nil {
			return err
		}

		if err := generateSchemaFile(t.config, schemaPath); err != nil {
			return err
		}

		if err := generateSampleConfig(t.config, samplePath, t.schemaName); err != nil {
			return err
		}

		log.Printf("Schema successfully generated at %s", schemaPath)
	}

	return nil
}

func generateSchemaFile(config schemaGenerator, schemaPath string) error {
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	return nil
}

// generateSampleConfig writes config as YAML with a schema reference, unless samplePath exists.
func generateSampleConfig(config any, samplePath string, schemaName string) error {
	if _, err := os.Stat(samplePath); err == nil {
		return nil
	}

	yamlBytes, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal sample config to yaml: %w", err)
	}

	yamlBytes = append([]byte(getSchemaReference(schemaName)), yamlBytes...)

	if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write sample config to file: %w", err)
	}

	log.Printf("Sample config successfully generated at %s", samplePath)

	return nil
}

func validatePaths(schemaPath, sampleConfigPath string) error {
	if schemaPath == "" {
		return fmt.Errorf("schema path cannot be empty")
	}

	if sampleConfigPath == "" {
		return fmt.Errorf("sample config path cannot be empty")
	}

	return nil
}

func validateSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("schema name %q must have .json extension", name)
	}

	return nil
}

func getSchemaReference(schemaName string) string {
	return "# yaml-language-server: $schema=" + schemaName + "\n"
}
