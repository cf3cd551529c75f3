package episim

import (
	"fmt"
	"os"
	"time"
)

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Timestamp    bool
	OutputDir    string                // overrides the configured output path when set
	CSVAppend    func(st State) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string         // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV
}

// createCSVFile returns a file which requires a defer close statement!
func createCSVFile(conf ExportConfig) *os.File {
	outputDir := conf.OutputDir
	if outputDir == "" {
		outputDir = episimConfig().outputDir
	}
	var filename string
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/sir-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", outputDir, conf.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/sir-%s.csv", outputDir, conf.Filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are t, S, I, R
#   Time is in simulation units (steps of dt)
time,S,I,R`, time.Now().UTC()))
	if conf.CSVAppendHdr != nil {
		// Append the headers for the appended columns.
		f.WriteString("," + conf.CSVAppendHdr())
	}
	return f
}

// StreamStates streams the output of the channel to the configured CSV file.
// The channel closing marks the end of the simulation.
func StreamStates(conf ExportConfig, stateChan <-chan (State)) {
	if !conf.AsCSV {
		// Still drain the channel so the propagation never blocks.
		for range stateChan {
		}
		return
	}
	f := createCSVFile(conf)
	defer f.Close()
	for state := range stateChan {
		asTxt := fmt.Sprintf("%f,%.0f,%.0f,%.0f", state.Time, state.S, state.I, state.R)
		if conf.CSVAppend != nil {
			asTxt += "," + conf.CSVAppend(state)
		}
		if _, err := f.WriteString("\n" + asTxt); err != nil {
			panic(err)
		}
	}
	f.WriteString("\n")
}
