package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/riskboard/schema"
)

// Color variables for console output.
var (
	HigherColor  = color.New(color.FgRed, color.Bold) // HigherColor represents standard danger.
	AverageColor = color.New(color.FgYellow)          // AverageColor represents standard caution, not bold.
	LowerColor   = color.New(color.FgGreen)           // LowerColor represents a low-risk signal.
	NoRiskColor  = color.New(color.FgHiBlack)         // NoRiskColor dims bugs without commits.
)

// GetColorRiskLabel returns a colored risk label for console output (table).
// It uses RiskBand.Label to determine the string, and then applies the appropriate color.
func GetColorRiskLabel(band schema.RiskBand) (string, error) {
	text, err := band.Label()
	if err != nil {
		return "", err
	}

	switch band {
	case schema.HigherRisk:
		return HigherColor.Sprint(text), nil
	case schema.AverageRisk:
		return AverageColor.Sprint(text), nil
	case schema.LowerRisk:
		return LowerColor.Sprint(text), nil
	default:
		return NoRiskColor.Sprint(text), nil
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
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

// GetStoreDBFilePath returns the path to the SQLite DB file for the record store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".riskboard_records.db"
	}
	return filepath.Join(homeDir, ".riskboard_records.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
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
