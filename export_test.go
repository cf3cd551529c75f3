package episim

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStreamStatesCSV(t *testing.T) {
	dir := t.TempDir()
	conf := ExportConfig{Filename: "stream", AsCSV: true, OutputDir: dir}
	stateChan := make(chan State, 3)
	stateChan <- State{Time: 0, S: 990, I: 10, R: 0}
	stateChan <- State{Time: 0.1, S: 980, I: 18, R: 2}
	stateChan <- State{Time: 0.2, S: 975, I: 20, R: 5}
	close(stateChan)
	StreamStates(conf, stateChan)

	contents, err := os.ReadFile(dir + "/sir-stream.csv")
	require.NoError(t, err)
	csv := string(contents)
	require.Contains(t, csv, "time,S,I,R")
	require.Contains(t, csv, "0.000000,990,10,0")
	require.Contains(t, csv, "0.200000,975,20,5")
	var rows int
	for _, line := range strings.Split(csv, "\n") {
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "time") {
			continue
		}
		rows++
	}
	require.Equal(t, 3, rows)
}

func TestStreamStatesAppend(t *testing.T) {
	dir := t.TempDir()
	conf := ExportConfig{
		Filename:     "append",
		AsCSV:        true,
		OutputDir:    dir,
		CSVAppend:    func(st State) string { return "x" },
		CSVAppendHdr: func() string { return "extra" },
	}
	stateChan := make(chan State, 1)
	stateChan <- State{Time: 0, S: 1, I: 2, R: 3}
	close(stateChan)
	StreamStates(conf, stateChan)

	contents, err := os.ReadFile(dir + "/sir-append.csv")
	require.NoError(t, err)
	require.Contains(t, string(contents), "time,S,I,R,extra")
	require.Contains(t, string(contents), "0.000000,1,2,3,x")
}

func TestPropagateExportsCSV(t *testing.T) {
	dir := t.TempDir()
	cfg := canonicalConfig()
	cfg.NSteps = 50
	sim, err := NewSimulation(cfg, ExportConfig{Filename: "run", AsCSV: true, OutputDir: dir})
	require.NoError(t, err)
	traj := sim.Propagate()
	require.Len(t, traj, 51)

	contents, err := os.ReadFile(dir + "/sir-run.csv")
	require.NoError(t, err)
	var rows int
	for _, line := range strings.Split(string(contents), "\n") {
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "time") {
			continue
		}
		rows++
	}
	require.Equal(t, 51, rows, "one CSV row per state, initial state included")
}
