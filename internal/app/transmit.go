package app

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"corelink/internal/framing"
	"corelink/internal/logging"
	"corelink/internal/params"
	"corelink/internal/phy"
)

// Transmitter owns one end-to-end send of a file's contents as a single
// framed packet, built the way Application wired RTL-SDR and the ADS-B
// processor together: a config, a logger, and a Run method that does the
// one thing this binary exists to do.
type Transmitter struct {
	config  TXConfig
	logger  *logrus.Logger
	rotator *logging.LogRotator
}

// NewTransmitter builds a Transmitter with a logger leveled from config,
// optionally tee'd into a rotating log file under config.LogDir.
func NewTransmitter(config TXConfig) *Transmitter {
	logger, rotator, err := newLogger(config.LogDir, config.LogRotateUTC, config.Verbose)
	if err != nil {
		logger = logrus.New()
		logger.WithError(err).Warn("failed to set up log file, logging to stdout only")
	}
	return &Transmitter{config: config, logger: logger, rotator: rotator}
}

// Run reads the configured file in full and transmits it as one packet,
// occupying the core in phase-locked ChipPeriod intervals until the last
// delimiter chip has been driven.
func (t *Transmitter) Run() error {
	if t.rotator != nil {
		defer t.rotator.Close()
	}

	data, err := os.ReadFile(t.config.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", t.config.FilePath, err)
	}

	t.logger.WithFields(logrus.Fields{
		"version":     Version,
		"file":        t.config.FilePath,
		"payload_len": len(data),
		"code_len":    params.CDMACodeLength,
		"chip_period": params.ChipPeriod,
	}).Info("starting transmission")

	driver := phy.NewDriver(params.MaxConcurrency)
	chips := framing.NewChipEmitter(driver, params.CDMACode, params.ChipPeriod)
	bytes := framing.NewByteEmitter(chips, &txObserver{logger: t.logger})
	packets := framing.NewPacketEmitter(bytes)

	packets.EmitPacket(data)

	t.logger.Info("transmission complete")
	return nil
}

// txObserver logs per-byte and per-delimiter emission progress without the
// emitter itself depending on logrus, matching framing.Observer's split.
type txObserver struct {
	logger  *logrus.Logger
	byteNum int
}

func (o *txObserver) OnByte(b byte) {
	o.byteNum++
	o.logger.WithFields(logrus.Fields{"n": o.byteNum, "byte": fmt.Sprintf("0x%02X", b)}).Debug("emitted byte")
}

func (o *txObserver) OnDelimiter() {
	o.logger.Debug("emitted delimiter")
}
