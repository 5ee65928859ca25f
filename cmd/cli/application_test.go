package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewApplicationRegistersCommands(t *testing.T) {
	application := NewApplication()
	require.NotNil(t, application.rootCommand)

	commandNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		commandNames[registeredCommand.Name()] = true
	}

	require.True(t, commandNames["build-cache"])
	require.True(t, commandNames["run"])
}

func TestRootCommandPrintsHelp(t *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{})

	require.NoError(t, application.Execute())
	require.Contains(t, outputBuffer.String(), "exclusion-screener")
}

func TestRunCommandRequiresClientConfiguration(t *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{"run", "--month", "2026-08", "--staff", "staff.csv"})

	executionError := application.Execute()
	require.Error(t, executionError)
	require.Contains(t, executionError.Error(), "--client")
}

func TestBuildCacheCommandRequiresMonth(t *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{"build-cache", "--oig", "oig.csv", "--sam", "sam.csv"})

	executionError := application.Execute()
	require.Error(t, executionError)
	require.Contains(t, executionError.Error(), "--month")
}

func TestEmbeddedDefaultConfigurationIsCopied(t *testing.T) {
	firstCopy := EmbeddedDefaultConfiguration()
	require.NotEmpty(t, firstCopy)

	firstCopy[0] = '#'
	require.NotEqual(t, firstCopy[0], EmbeddedDefaultConfiguration()[0])
}
