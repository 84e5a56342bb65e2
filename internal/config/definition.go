package config

import (
	"encoding/json"
	"fmt"
	"os"

	"docflow/pkg/models"
)

// LoadDefinition reads and parses a pipeline definition JSON file from the
// given path. Defaults that operators usually omit (connector types, load
// type, flags) are filled in before the definition is returned.
func LoadDefinition(filePath string) (*models.PipelineDefinition, error) {
	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file '%s': %w", filePath, err)
	}

	def := models.PipelineDefinition{
		SourceType:      models.SourceMongoDB,
		DestinationType: models.DestinationMongoDB,
		LoadType:        models.LoadTypeFull,
		IsEnabled:       true,
		IsActive:        true,
	}
	if err := json.Unmarshal(bytes, &def); err != nil {
		return nil, fmt.Errorf("failed to parse definition file '%s': %w", filePath, err)
	}

	return &def, nil
}
