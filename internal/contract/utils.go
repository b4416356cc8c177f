package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/tracelens/tracelens/schema"
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold)     // criticalColor represents standard danger.
	HighColor     = color.New(color.FgMagenta, color.Bold) // highColor represents strong, distinct warning.
	ModerateColor = color.New(color.FgYellow)              // moderateColor represents standard caution, not bold.
	GoodColor     = color.New(color.FgGreen)               // goodColor represents a healthy signal.
	LowColor      = color.New(color.FgCyan)                // lowColor represents informational / low-priority signal.
)

// GetPlainGradeLabel returns a plain text label for a composite score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainGradeLabel(score float64) string {
	return schema.GradeFor(score)
}

// GetColorGradeLabel returns a colored grade label for console output.
func GetColorGradeLabel(score float64) string {
	text := schema.GradeFor(score)
	switch text {
	case schema.GradeTopTier, schema.GradeExcellent:
		return GoodColor.Sprint(text)
	case schema.GradeGood, schema.GradeAcceptable:
		return LowColor.Sprint(text)
	case schema.GradeModerate:
		return ModerateColor.Sprint(text)
	default: // "poor"
		return CriticalColor.Sprint(text)
	}
}

// GetColorSeverityLabel returns a colored severity label for console output.
func GetColorSeverityLabel(sev schema.Severity) string {
	switch sev {
	case schema.CriticalSeverity:
		return CriticalColor.Sprint(string(sev))
	case schema.HighSeverity:
		return HighColor.Sprint(string(sev))
	case schema.MediumSeverity, schema.WarningSeverity:
		return ModerateColor.Sprint(string(sev))
	default:
		return LowColor.Sprint(string(sev))
	}
}

// GetColorMetricStatus returns a colored metric status label for console output.
func GetColorMetricStatus(status schema.MetricStatus) string {
	switch status {
	case schema.GoodStatus:
		return GoodColor.Sprint(string(status))
	case schema.NeedsImprovementStatus:
		return ModerateColor.Sprint(string(status))
	default: // "poor"
		return CriticalColor.Sprint(string(status))
	}
}

// SelectOutputFile returns the appropriate file handle for output, based
// on the provided file path. It falls back to os.Stdout when empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for baseline
// and history storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".tracelens_store.db"
	}
	return filepath.Join(homeDir, ".tracelens_store.db")
}

// TruncateURL truncates a URL to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 to leave room for the ellipsis; shorter widths
// return the URL unchanged.
func TruncateURL(rawURL string, maxWidth int) string {
	runes := []rune(rawURL)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return rawURL
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
