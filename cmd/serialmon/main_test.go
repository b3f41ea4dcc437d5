package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConfigOverlaysDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte("device: /dev/ttyUSB1\nsources: [adc]\n"))
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB1", cfg.Device)
	require.Equal(t, 9600, cfg.Baud)
	require.Equal(t, 500, cfg.ReadTimeoutMS)
	require.True(t, cfg.wants("adc"))
	require.False(t, cfg.wants("ads1115"))
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	_, err := parseConfig([]byte("baud: -1\n"))
	require.ErrorContains(t, err, "baud")

	_, err = parseConfig([]byte("device: ''\n"))
	require.ErrorContains(t, err, "device")

	_, err = parseConfig([]byte("baud: [1\n"))
	require.Error(t, err)
}

func TestLoadConfigWithoutPath(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestMonitorLogsReadings(t *testing.T) {
	in := strings.NewReader("adc raw=1781 temp=30.000\n\nadc garbage\nads1115 mv=1024\n")
	var out bytes.Buffer
	logger := log.New(&out, "", 0)

	require.NoError(t, monitor(in, defaultConfig(), logger))
	require.Equal(t, "adc raw: 1781 temp: 30.000\n", firstLine(out.String()))
	require.Contains(t, out.String(), `skip "adc garbage"`)
	require.Contains(t, out.String(), "ads1115 mv: 1024")
}

func TestMonitorFiltersSources(t *testing.T) {
	in := strings.NewReader("adc raw=1\nads1115 mv=2\n")
	var out bytes.Buffer
	cfg := defaultConfig()
	cfg.Sources = []string{"ads1115"}

	require.NoError(t, monitor(in, cfg, log.New(&out, "", 0)))
	require.Equal(t, "ads1115 mv: 2\n", out.String())
}

func TestMonitorStopsOnHaltSource(t *testing.T) {
	in := strings.NewReader("adc raw=1\nerr msg=\"adc start failed\"\nadc raw=2\n")
	var out bytes.Buffer
	cfg := defaultConfig()
	cfg.HaltOn = "err"

	err := monitor(in, cfg, log.New(&out, "", 0))
	require.ErrorIs(t, err, errHalted)
	require.Contains(t, out.String(), "err msg: adc start failed")
	require.NotContains(t, out.String(), "raw: 2")
}

// scriptedPort replays chunks; an empty chunk is an idle read timeout.
type scriptedPort struct {
	chunks []string
}

var errUnplugged = errors.New("device unplugged")

func (p *scriptedPort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		return 0, errUnplugged
	}
	c := p.chunks[0]
	p.chunks = p.chunks[1:]
	if c == "" {
		return 0, io.EOF
	}
	return copy(b, c), nil
}

func TestMonitorSurvivesIdleTimeouts(t *testing.T) {
	port := &scriptedPort{chunks: []string{"adc raw=1 temp=25.000\n", "", "", "adc raw=2 temp=25.500\n"}}
	var out bytes.Buffer

	err := monitor(idleReader{port}, defaultConfig(), log.New(&out, "", 0))
	require.ErrorIs(t, err, errUnplugged)
	require.Equal(t, "adc raw: 1 temp: 25.000\nadc raw: 2 temp: 25.500\n", out.String())
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s
	}
	return s[:i+1]
}
