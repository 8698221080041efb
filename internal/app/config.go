package app

// DefaultOutDir is where the receiver writes one file per accepted packet
// when --out-dir isn't given.
const DefaultOutDir = "."

// TXConfig holds the transmit binary's configuration.
type TXConfig struct {
	FilePath     string
	LogDir       string
	LogRotateUTC bool
	Verbose      bool
	ShowVersion  bool
}

// RXConfig holds the receive binary's configuration.
type RXConfig struct {
	OutDir       string
	Heatmap      bool
	LogDir       string
	LogRotateUTC bool
	Verbose      bool
	ShowVersion  bool
}
