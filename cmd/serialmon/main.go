// Command serialmon reads telemetry lines from a board's console UART and
// logs them, one reading per line.
package main

import (
	"bufio"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/tarm/serial"

	"mcuperiph-go/internal/telemetry"
)

var errHalted = errors.New("firmware halted")

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML config file")
		device  = flag.String("device", "", "serial device (overrides config)")
		baud    = flag.Int("baud", 0, "baud rate (overrides config)")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "[serialmon] ", log.LstdFlags)

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		logger.Fatal(err)
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if err := cfg.validate(); err != nil {
		logger.Fatal(err)
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: time.Duration(cfg.ReadTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		logger.Fatalf("open %s: %v", cfg.Device, err)
	}
	defer port.Close()

	logger.Printf("listening on %s at %d baud", cfg.Device, cfg.Baud)
	err = monitor(idleReader{port}, cfg, logger)
	if errors.Is(err, errHalted) {
		logger.Print(err)
		os.Exit(2)
	}
	if err != nil {
		logger.Fatal(err)
	}
}

// idleReader retries reads that end in io.EOF. With a read timeout set,
// the serial driver reports an idle line as (0, io.EOF), which is not the
// end of the stream.
type idleReader struct {
	r io.Reader
}

func (i idleReader) Read(p []byte) (int, error) {
	for {
		n, err := i.r.Read(p)
		if errors.Is(err, io.EOF) {
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// monitor logs every reading from r until EOF or a halt line.
func monitor(r io.Reader, cfg Config, logger *log.Logger) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		rd, err := telemetry.Parse(line)
		if err != nil {
			logger.Printf("skip %q: %v", line, err)
			continue
		}
		if !cfg.wants(rd.Source) {
			continue
		}
		logger.Print(describe(rd))
		if cfg.HaltOn != "" && rd.Source == cfg.HaltOn {
			return errHalted
		}
	}
	return sc.Err()
}

func describe(rd telemetry.Reading) string {
	var b strings.Builder
	b.WriteString(rd.Source)
	for _, f := range rd.Fields {
		b.WriteString(" ")
		b.WriteString(f.Key)
		b.WriteString(": ")
		b.WriteString(f.String())
	}
	return b.String()
}
