package screening

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	commandUseConstant              = "run"
	commandShortDescriptionConstant = "Run an exclusion check for one client and month"
	commandLongDescriptionConstant  = "run ingests the configured client rosters, screens every identity against the monthly reference cache, and writes the audit workbook, PDF reports, and run history."

	clientFlagNameConstant         = "client"
	clientFlagDescriptionConstant  = "Path to the client configuration YAML"
	monthFlagNameConstant          = "month"
	monthFlagDescriptionConstant   = "Screening month in YYYY-MM form"
	staffFlagNameConstant          = "staff"
	staffFlagDescriptionConstant   = "Path to the staff roster"
	boardFlagNameConstant          = "board"
	boardFlagDescriptionConstant   = "Path to the board roster"
	vendorsFlagNameConstant        = "vendors"
	vendorsFlagDescriptionConstant = "Path to the vendor roster"
	oigFlagNameConstant            = "oig"
	oigFlagDescriptionConstant     = "Path to the OIG export used for this month (recorded in run metadata)"
	samFlagNameConstant            = "sam"
	samFlagDescriptionConstant     = "Path to the SAM export used for this month (recorded in run metadata)"
	dataDirFlagNameConstant        = "data-dir"
	dataDirFlagDescriptionConstant = "Directory holding reference caches and run history"

	missingClientMessageConstant     = "client configuration path is required; supply --client"
	noRostersMessageConstant         = "at least one roster is required; supply --staff, --board, or --vendors"
	defaultDataDirectoryNameConstant = "ExclusionAppData"
	runSummaryTemplateConstant       = "SCREENED: %s %s (staff=%d board=%d vendors=%d)\n"
	runArtifactTemplateConstant      = "  %s\n"
)

// CommandBuilder assembles the run command.
type CommandBuilder struct {
	LoggerProvider        func() *zap.Logger
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the run cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(clientFlagNameConstant, "", clientFlagDescriptionConstant)
	command.Flags().String(monthFlagNameConstant, "", monthFlagDescriptionConstant)
	command.Flags().String(staffFlagNameConstant, "", staffFlagDescriptionConstant)
	command.Flags().String(boardFlagNameConstant, "", boardFlagDescriptionConstant)
	command.Flags().String(vendorsFlagNameConstant, "", vendorsFlagDescriptionConstant)
	command.Flags().String(oigFlagNameConstant, "", oigFlagDescriptionConstant)
	command.Flags().String(samFlagNameConstant, "", samFlagDescriptionConstant)
	command.Flags().String(dataDirFlagNameConstant, "", dataDirFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	service := NewService(Dependencies{Logger: builder.resolveLogger()})
	result, runError := service.Run(command.Context(), options)
	if runError != nil {
		return runError
	}

	fmt.Fprintf(command.OutOrStdout(), runSummaryTemplateConstant, filepath.Base(options.ClientConfigPath), options.Month, result.StaffCount, result.BoardCount, result.VendorCount)
	for _, artifactPath := range []string{result.AuditFile, result.StaffPDF, result.BoardPDF, result.VendorPDF} {
		fmt.Fprintf(command.OutOrStdout(), runArtifactTemplateConstant, artifactPath)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	flagValues := map[string]string{}
	for _, flagName := range []string{
		clientFlagNameConstant,
		monthFlagNameConstant,
		staffFlagNameConstant,
		boardFlagNameConstant,
		vendorsFlagNameConstant,
		oigFlagNameConstant,
		samFlagNameConstant,
		dataDirFlagNameConstant,
	} {
		flagValue, flagError := command.Flags().GetString(flagName)
		if flagError != nil {
			return Options{}, flagError
		}
		flagValues[flagName] = strings.TrimSpace(flagValue)
	}

	configuration := builder.resolveConfiguration()

	clientConfigPath := flagValues[clientFlagNameConstant]
	if len(clientConfigPath) == 0 {
		clientConfigPath = configuration.ClientConfigPath
	}
	if len(clientConfigPath) == 0 {
		return Options{}, errors.New(missingClientMessageConstant)
	}

	if !monthPattern.MatchString(flagValues[monthFlagNameConstant]) {
		return Options{}, ErrMonthInvalid
	}

	if len(flagValues[staffFlagNameConstant]) == 0 && len(flagValues[boardFlagNameConstant]) == 0 && len(flagValues[vendorsFlagNameConstant]) == 0 {
		return Options{}, errors.New(noRostersMessageConstant)
	}

	dataDirectory := flagValues[dataDirFlagNameConstant]
	if len(dataDirectory) == 0 {
		dataDirectory = configuration.DataDirectory
	}
	if len(dataDirectory) == 0 {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return Options{}, homeError
		}
		dataDirectory = filepath.Join(homeDirectory, defaultDataDirectoryNameConstant)
	}

	return Options{
		ClientConfigPath: clientConfigPath,
		Month:            flagValues[monthFlagNameConstant],
		DataDirectory:    dataDirectory,
		StaffPath:        flagValues[staffFlagNameConstant],
		BoardPath:        flagValues[boardFlagNameConstant],
		VendorPath:       flagValues[vendorsFlagNameConstant],
		OIGPath:          flagValues[oigFlagNameConstant],
		SAMPath:          flagValues[samFlagNameConstant],
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}
