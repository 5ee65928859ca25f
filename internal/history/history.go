package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

const (
	runsDirectoryNameConstant            = "runs"
	metadataFileNameConstant             = "metadata.json"
	runLogFileNameConstant               = "run_log.txt"
	runLogLineTemplateConstant           = "[%s] %s\n"
	metadataIndentConstant               = "    "
	directoryPermissionsConstant         = 0o755
	runLogPermissionsConstant            = 0o644
	runDirectoryErrorTemplateConstant    = "unable to create run directory %s: %w"
	metadataEncodeErrorTemplateConstant  = "unable to encode run metadata: %w"
	metadataWriteErrorTemplateConstant   = "unable to write run metadata %s: %w"
	runLogAppendErrorTemplateConstant    = "unable to append run log %s: %w"
	metadataTimestampKeyConstant         = "timestamp"
)

// CreateRunDirectory creates (or reuses) the run directory for a client and month.
func CreateRunDirectory(dataDirectory string, clientName string, month string) (string, error) {
	runDirectory := filepath.Join(dataDirectory, runsDirectoryNameConstant, clientName, month)
	if directoryError := os.MkdirAll(runDirectory, directoryPermissionsConstant); directoryError != nil {
		return "", fmt.Errorf(runDirectoryErrorTemplateConstant, runDirectory, directoryError)
	}
	return runDirectory, nil
}

// WriteMetadata atomically persists metadata.json in the run directory,
// stamping a UTC timestamp when the caller did not provide one.
func WriteMetadata(runDirectory string, metadata map[string]any, clock func() time.Time) (string, error) {
	if clock == nil {
		clock = time.Now
	}
	if _, timestampProvided := metadata[metadataTimestampKeyConstant]; !timestampProvided {
		metadata[metadataTimestampKeyConstant] = clock().UTC().Format(time.RFC3339)
	}

	encodedMetadata, encodeError := json.MarshalIndent(metadata, "", metadataIndentConstant)
	if encodeError != nil {
		return "", fmt.Errorf(metadataEncodeErrorTemplateConstant, encodeError)
	}

	metadataPath := filepath.Join(runDirectory, metadataFileNameConstant)
	if writeError := renameio.WriteFile(metadataPath, encodedMetadata, runLogPermissionsConstant); writeError != nil {
		return "", fmt.Errorf(metadataWriteErrorTemplateConstant, metadataPath, writeError)
	}

	return metadataPath, nil
}

// AppendRunLog appends a timestamped message to the run directory's log file.
func AppendRunLog(runDirectory string, message string, clock func() time.Time) (string, error) {
	if clock == nil {
		clock = time.Now
	}

	runLogPath := filepath.Join(runDirectory, runLogFileNameConstant)
	logFile, openError := os.OpenFile(runLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, runLogPermissionsConstant)
	if openError != nil {
		return "", fmt.Errorf(runLogAppendErrorTemplateConstant, runLogPath, openError)
	}
	defer func() {
		_ = logFile.Close()
	}()

	logLine := fmt.Sprintf(runLogLineTemplateConstant, clock().UTC().Format(time.RFC3339), message)
	if _, writeError := logFile.WriteString(logLine); writeError != nil {
		return "", fmt.Errorf(runLogAppendErrorTemplateConstant, runLogPath, writeError)
	}

	return runLogPath, nil
}
