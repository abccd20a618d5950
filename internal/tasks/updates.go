package tasks

import (
	"fmt"

	"github.com/desertthunder/discos/internal/formatter"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	EncodeCatalog Phase = iota
	ExportCompleted
	ExportFailed
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case EncodeCatalog:
		return "encode_catalog"
	case ExportCompleted:
		return "export_completed"
	case ExportFailed:
		return "export_failed"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func encodingUpdate(step, total int, format formatter.Format) ProgressUpdate {
	return ProgressUpdate{
		Phase:   EncodeCatalog,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Encoding catalog as %s...", format),
		Data:    format,
	}
}

func exportCompletedUpdate(step, total int, res FormatExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCompleted,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported %s (%d bytes)", res.Key, res.Bytes),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res FormatExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export %s: %v", res.Format, res.Err),
		Data:    res,
	}
}

func manifestUpdate(key string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest %s...", key),
	}
}
