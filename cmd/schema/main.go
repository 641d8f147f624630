// Command schema writes the JSON Schema of the simulation input accepted
// by cmd/cli and the WASM build.
//
//	schema -out schema/simulation_input.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/cxd309/racer-engine/internal/engine"
	"github.com/cxd309/racer-engine/internal/kinematics"
	"github.com/cxd309/racer-engine/internal/vehicle"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{DoNotReference: true}

	root := reflector.Reflect(new(engine.SimulationInput))
	root.Title = "Racer Simulation Input"
	root.Description = "Scripted run of one car on one closed track."

	// Vehicle.Kinem is resolved by a discriminator in UnmarshalJSON, which
	// reflection cannot see.
	v := reflector.ReflectFromType(reflect.TypeOf(vehicle.Vehicle{}))
	v.Version = ""
	v.Description = "Defaults to the stock arcade car"
	v.Properties.Set("kinematics", &jsonschema.Schema{
		Description: "Motion model, selected by the model field. Defaults to the stock arcade model.",
		OneOf: []*jsonschema.Schema{
			modelSchema(reflector, kinematics.ArcadeModelName, kinematics.Arcade{}),
			modelSchema(reflector, kinematics.ConstantModelName, kinematics.ConstantAcceleration{}),
		},
	})
	root.Properties.Set("vehicle", v)
	return root
}

func modelSchema(r jsonschema.Reflector, name string, model any) *jsonschema.Schema {
	s := r.ReflectFromType(reflect.TypeOf(model))
	s.Version = ""
	s.Title = name
	s.Properties.Set("model", &jsonschema.Schema{Type: "string", Enum: []interface{}{name}})
	s.Required = append(s.Required, "model")
	return s
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
