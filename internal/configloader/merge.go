package configloader

import "github.com/yaklabco/cshtmlfmt/pkg/config"

// merge combines two configurations, with override taking precedence over base.
//   - Scalars: override wins when it is non-zero
//   - Optional booleans: override wins when it is set
//   - Slices: override replaces base entirely when non-nil
//   - CLI switches: override can only turn them on
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()

	if override.IndentUnit != 0 {
		result.IndentUnit = override.IndentUnit
	}
	if override.Encoding != "" {
		result.Encoding = override.Encoding
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}

	mergeBool(&result.ReindentRawBlocks, override.ReindentRawBlocks)
	mergeBool(&result.SeparateCases, override.SeparateCases)
	mergeBool(&result.IncludeVendored, override.IncludeVendored)
	mergeBool(&result.Backups.Enabled, override.Backups.Enabled)

	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	if override.Extensions != nil {
		result.Extensions = append(make([]string, 0, len(override.Extensions)), override.Extensions...)
	}
	if override.Ignore != nil {
		result.Ignore = append(make([]string, 0, len(override.Ignore)), override.Ignore...)
	}

	result.Write = result.Write || override.Write
	result.Check = result.Check || override.Check
	result.Diff = result.Diff || override.Diff
	result.NoBackups = result.NoBackups || override.NoBackups

	return result
}

func mergeBool(dst **bool, override *bool) {
	if override != nil {
		*dst = config.Bool(*override)
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
