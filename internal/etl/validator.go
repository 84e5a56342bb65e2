package etl

import (
	"fmt"

	"docflow/pkg/models"
)

// ValidateDefinition checks a pipeline definition before any extraction
// begins. All failures wrap ErrInvalidDefinition.
func ValidateDefinition(def *models.PipelineDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if def.SourceURI == "" || def.SourceCollection == "" {
		return fmt.Errorf("%w: source uri and collection are required", ErrInvalidDefinition)
	}
	if def.DestinationURI == "" || def.DestinationCollection == "" {
		return fmt.Errorf("%w: destination uri and collection are required", ErrInvalidDefinition)
	}

	switch def.LoadType {
	case models.LoadTypeFull:
	case models.LoadTypeIncremental:
		if def.IncrementalKey == "" {
			return fmt.Errorf("%w: incremental load requires a non-empty incremental_key", ErrInvalidDefinition)
		}
		switch def.IncrementalStrategy {
		case models.StrategyAppend, models.StrategyMerge, models.StrategyReplace, models.StrategyUpsert:
		default:
			return fmt.Errorf("%w: unknown incremental strategy %q", ErrInvalidDefinition, def.IncrementalStrategy)
		}
	default:
		return fmt.Errorf("%w: unknown load type %q", ErrInvalidDefinition, def.LoadType)
	}

	for field, rule := range def.MaskingConfig {
		switch rule {
		case models.MaskRemove, models.MaskHash, models.MaskPartial:
		default:
			return fmt.Errorf("%w: unknown masking rule %q for field %q", ErrInvalidDefinition, rule, field)
		}
	}

	return nil
}
