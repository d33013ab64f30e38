// Package detector handles system architecture detection.
package detector

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrogolib/arch"
	"github.com/retroenv/retrogolib/log"
)

// nesMagic starts every iNES file.
var nesMagic = []byte{'N', 'E', 'S', 0x1A}

// Detector handles system architecture detection from file names and content.
type Detector struct {
	logger *log.Logger
}

// New creates a new system detector.
func New(logger *log.Logger) *Detector {
	return &Detector{
		logger: logger,
	}
}

// Detect determines the system architecture of a program image. A known file
// header takes precedence over the filename extension. Unknown files are
// assumed to be CHIP-8 programs, which have no header.
func (d *Detector) Detect(filename string, data []byte) arch.System {
	system := d.detectFromData(data)
	if system == "" {
		system = d.detectFromFile(filename)
	}

	d.logger.Debug("Detected system",
		log.Stringer("system", system),
		log.String("file", filename))
	return system
}

// detectFromData determines the system type based on a file header.
func (d *Detector) detectFromData(data []byte) arch.System {
	if bytes.HasPrefix(data, nesMagic) {
		return arch.NES
	}
	return ""
}

// detectFromFile determines the system type based on file extension.
func (d *Detector) detectFromFile(filename string) arch.System {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".nes":
		return arch.NES
	default:
		// .ch8, .c8 and .rom files as well as files without extension
		return arch.CHIP8System
	}
}
