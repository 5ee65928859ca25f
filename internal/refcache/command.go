package refcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant              = "build-cache"
	commandShortDescriptionConstant = "Build the monthly exclusion reference cache"
	commandLongDescriptionConstant  = "build-cache loads the raw OIG LEIE and SAM.gov exclusion exports for one month into a local sqlite reference database consumed by screening runs."

	monthFlagNameConstant            = "month"
	monthFlagDescriptionConstant     = "Reference month in YYYY-MM form"
	oigFlagNameConstant              = "oig"
	oigFlagDescriptionConstant       = "Path to the OIG LEIE CSV export"
	samFlagNameConstant              = "sam"
	samFlagDescriptionConstant       = "Path to the SAM.gov exclusions CSV export"
	dataDirFlagNameConstant          = "data-dir"
	dataDirFlagDescriptionConstant   = "Directory holding reference caches and run history"
	missingMonthMessageConstant      = "month is required in YYYY-MM form; supply --month"
	missingOIGMessageConstant        = "OIG export path is required; supply --oig"
	missingSAMMessageConstant        = "SAM export path is required; supply --sam"
	defaultDataDirectoryNameConstant = "ExclusionAppData"
	buildSummaryTemplateConstant     = "BUILT: %s (%d people, %d entities)\n"
)

var commandMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the build-cache command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the build-cache cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(monthFlagNameConstant, "", monthFlagDescriptionConstant)
	command.Flags().String(oigFlagNameConstant, "", oigFlagDescriptionConstant)
	command.Flags().String(samFlagNameConstant, "", samFlagDescriptionConstant)
	command.Flags().String(dataDirFlagNameConstant, "", dataDirFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	month, monthError := command.Flags().GetString(monthFlagNameConstant)
	if monthError != nil {
		return monthError
	}
	if !commandMonthPattern.MatchString(strings.TrimSpace(month)) {
		return errors.New(missingMonthMessageConstant)
	}

	oigPath, oigError := command.Flags().GetString(oigFlagNameConstant)
	if oigError != nil {
		return oigError
	}
	if len(strings.TrimSpace(oigPath)) == 0 {
		return errors.New(missingOIGMessageConstant)
	}

	samPath, samError := command.Flags().GetString(samFlagNameConstant)
	if samError != nil {
		return samError
	}
	if len(strings.TrimSpace(samPath)) == 0 {
		return errors.New(missingSAMMessageConstant)
	}

	dataDirectory, dataDirError := builder.resolveDataDirectory(command)
	if dataDirError != nil {
		return dataDirError
	}

	buildResult, buildError := Build(command.Context(), BuildOptions{
		DataDirectory: dataDirectory,
		Month:         strings.TrimSpace(month),
		OIGPath:       strings.TrimSpace(oigPath),
		SAMPath:       strings.TrimSpace(samPath),
	}, builder.resolveLogger())
	if buildError != nil {
		return buildError
	}

	fmt.Fprintf(command.OutOrStdout(), buildSummaryTemplateConstant, buildResult.CachePath, buildResult.PeopleCount, buildResult.EntityCount)
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

// resolveDataDirectory prefers the flag, then configuration, then the
// conventional directory under the user's home.
func (builder *CommandBuilder) resolveDataDirectory(command *cobra.Command) (string, error) {
	flagValue, flagError := command.Flags().GetString(dataDirFlagNameConstant)
	if flagError != nil {
		return "", flagError
	}
	if trimmedFlag := strings.TrimSpace(flagValue); len(trimmedFlag) > 0 {
		return trimmedFlag, nil
	}

	if builder.ConfigurationProvider != nil {
		configured := builder.ConfigurationProvider().sanitize()
		if len(configured.DataDirectory) > 0 {
			return configured.DataDirectory, nil
		}
	}

	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		return "", homeError
	}
	return filepath.Join(homeDirectory, defaultDataDirectoryNameConstant), nil
}
