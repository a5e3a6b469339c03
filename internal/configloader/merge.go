package configloader

import "github.com/yaklabco/snoomark/pkg/config"

// merge combines two configurations, with override taking precedence:
//   - scalars overwrite base when non-zero
//   - slices replace base entirely when non-nil
//   - booleans can only be switched on, since false is the zero value
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}
	if override.OutDir != "" {
		result.OutDir = override.OutDir
	}

	result.Document = mergeDocument(base.Document, override.Document)

	if override.Cache.Enabled {
		result.Cache.Enabled = true
	}
	if override.Cache.Path != "" {
		result.Cache.Path = override.Cache.Path
	}

	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.Force {
		result.Force = true
	}

	return &result
}

func mergeDocument(base, override config.DocumentConfig) config.DocumentConfig {
	result := base
	if override.Enabled {
		result.Enabled = true
	}
	if override.Title != "" {
		result.Title = override.Title
	}
	if override.Stylesheet != "" {
		result.Stylesheet = override.Stylesheet
	}
	if override.Lang != "" {
		result.Lang = override.Lang
	}
	return result
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
