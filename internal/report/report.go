// Package report prints classification summaries and saves labelled images.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/coin-value/internal/coin"
	"github.com/ironsheep/coin-value/internal/imaging"
)

// LabeledImageName is the file written by Persist inside the output directory.
const LabeledImageName = "coins_valued.jpg"

// Summarize formats the per-denomination counts and the total.
//
// Only denominations with at least one coin are listed, in table order:
//
//	100 COP = 2x
//	500 COP = 1x
//	Total: 700 COP
func Summarize(result *coin.Result, currency string) string {
	var b strings.Builder
	for _, entry := range result.Tally() {
		fmt.Fprintf(&b, "%s = %dx\n", entry.Name, entry.Count)
	}
	fmt.Fprintf(&b, "Total: %s %s\n", FormatAmount(result.Total), currency)
	return b.String()
}

// Print writes the summary to w.
func Print(w io.Writer, result *coin.Result, currency string) error {
	_, err := io.WriteString(w, Summarize(result, currency))
	return err
}

// FormatAmount renders an amount with the fewest digits that represent it
// exactly: 1350, 50.5, 0.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Persist writes the labelled image to outputDir, creating the directory if
// needed, and returns the file path.
//
// Write failures are returned as *imaging.PersistenceError.
func Persist(result *coin.Result, outputDir string) (string, error) {
	path := filepath.Join(outputDir, LabeledImageName)
	if err := imaging.Save(result.Image, path); err != nil {
		return "", err
	}
	return path, nil
}
