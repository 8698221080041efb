package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"corelink/internal/correlator"
	"corelink/internal/diag"
	"corelink/internal/framing"
	"corelink/internal/logging"
	"corelink/internal/params"
	"corelink/internal/phy"
	"corelink/internal/store"
)

// Receiver runs forever, decoding packets off the PHY and saving each
// CRC-valid payload under config.OutDir, one file per packet. Structured
// the way Application paired a capture loop with a signal-driven shutdown,
// minus the worker pool: decoding is inherently one sequential bit stream.
type Receiver struct {
	config  RXConfig
	logger  *logrus.Logger
	rotator *logging.LogRotator
	writer  *store.Writer
}

// NewReceiver builds a Receiver, ensures config.OutDir exists, and
// optionally tees logging into a rotating log file under config.LogDir.
func NewReceiver(config RXConfig) (*Receiver, error) {
	logger, rotator, err := newLogger(config.LogDir, config.LogRotateUTC, config.Verbose)
	if err != nil {
		return nil, err
	}

	writer, err := store.NewWriter(config.OutDir)
	if err != nil {
		if rotator != nil {
			rotator.Close()
		}
		return nil, err
	}

	return &Receiver{config: config, logger: logger, rotator: rotator, writer: writer}, nil
}

// Run decodes packets until ctx is cancelled or a SIGINT/SIGTERM arrives.
func (r *Receiver) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if r.rotator != nil {
		defer r.rotator.Close()
		go r.rotator.Start(ctx)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		r.logger.Info("received shutdown signal")
		cancel()
	}()

	r.logger.WithFields(logrus.Fields{
		"version":      Version,
		"out_dir":      r.config.OutDir,
		"code_len":     params.CDMACodeLength,
		"oversampling": params.OversamplingFactorRX,
	}).Info("listening for packets")

	sampler := phy.NewSampler(params.MaxConcurrency)
	bank := correlator.NewBank(params.CDMACode, params.OversamplingFactorRX)
	bits := framing.NewBitReader(sampler, bank, params.SampleDuration)
	if r.config.Heatmap {
		bits.Diagnose = r.logDiagnostics
	}
	symbols := framing.NewSymbolReader(bits)
	packets := framing.NewPacketReader(symbols, r.onCRCError)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		payload := packets.Next()
		path, err := r.writer.Save(time.Now().UnixNano(), payload)
		if err != nil {
			r.logger.WithError(err).Error("failed to save packet")
			continue
		}
		r.logger.WithFields(logrus.Fields{
			"path":        path,
			"payload_len": len(payload),
		}).Info("packet received")
	}
}

func (r *Receiver) onCRCError(buffer []byte, residue uint16) {
	r.logger.WithFields(logrus.Fields{
		"frame_len": len(buffer),
		"residue":   residue,
	}).Warn("CRC check failed, frame discarded")
}

func (r *Receiver) logDiagnostics(correlations []float64) {
	summary := diag.Summarize(correlations)
	r.logger.WithFields(logrus.Fields{
		"mean":   summary.Mean,
		"max":    summary.Max,
		"stdev":  summary.Stdev,
		"locked": summary.Locked,
	}).Debug(diag.Heatmap(correlations))
}
