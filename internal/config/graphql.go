package config

import "fmt"

// GraphQLConfig contains GraphQL endpoint settings
type GraphQLConfig struct {
	MaxDepth        int  `mapstructure:"max_depth"`          // Maximum query depth (default: 10)
	AllowFragments  bool `mapstructure:"allow_fragments"`    // Allow fragment spreads in queries (default: false)
	MaxFieldsPerLvl int  `mapstructure:"max_fields_per_lvl"` // Maximum unique fields per query level (default: 50)
}

// Validate validates GraphQL configuration
func (gc *GraphQLConfig) Validate() error {
	if gc.MaxDepth < 1 {
		return fmt.Errorf("graphql max_depth must be at least 1, got: %d", gc.MaxDepth)
	}

	if gc.MaxFieldsPerLvl < 1 {
		return fmt.Errorf("graphql max_fields_per_lvl must be at least 1, got: %d", gc.MaxFieldsPerLvl)
	}

	return nil
}
