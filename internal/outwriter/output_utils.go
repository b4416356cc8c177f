package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/tracelens/tracelens/internal/contract"
	"github.com/tracelens/tracelens/schema"
	"golang.org/x/term"
)

// writeWithFile resolves the output destination, runs the writer against
// it, and reports where the output went when a file was used.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Stdout stays open for the caller.
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON encodes data with the two-space indentation every JSON
// output mode shares.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader writes the header row, then hands the CSV writer to
// writeRows for the data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters builds the numeric formatters shared by the table and
// CSV renderers, honoring the configured precision.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, intFmt
}

// gradeLabel returns the grade label for a composite score, colored when
// the config enables colors.
func gradeLabel(score float64, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorGradeLabel(score)
	}
	return contract.GetPlainGradeLabel(score)
}

// statusLabel returns the metric status label, colored when the config
// enables colors.
func statusLabel(status schema.MetricStatus, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorMetricStatus(status)
	}
	return string(status)
}

// severityLabel returns the severity label, colored when the config
// enables colors.
func severityLabel(sev schema.Severity, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorSeverityLabel(sev)
	}
	return string(sev)
}

// headerLine prints a section header, prefixing the emoji only when the
// config enables emojis.
func headerLine(w io.Writer, emoji, text string, cfg *contract.Config) {
	if cfg.UseEmojis {
		fmt.Fprintf(w, "%s %s\n", emoji, text)
	} else {
		fmt.Fprintf(w, "%s\n", text)
	}
}

// getMaxTableURLWidth calculates the maximum width for resource URLs in
// table output based on terminal width and table configuration.
func getMaxTableURLWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 30 // Rank + Type + Time columns with borders/padding

	// Add detail columns with formatting
	if cfg.Detail {
		baseWidth += 25 // Size + Priority columns with formatting
	}

	// Add explain column
	if cfg.Explain {
		baseWidth += 30 // Reasons column with formatting
	}

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 15

	// Calculate available space for the URL
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable URL width
		return 15
	}
	if available > 70 {
		// Maximum URL width to prevent overly long URLs
		return 70
	}
	return available
}
