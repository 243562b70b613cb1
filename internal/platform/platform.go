// Package platform reports what hardware the process is running on.
package platform

import "runtime"

// Info describes the host for status reporting.
type Info struct {
	OS    string `json:"os"`
	Arch  string `json:"arch"`
	Board string `json:"board,omitempty"`
}

// Detect fills in OS and architecture plus the board model when one
// can be read.
func Detect() Info {
	return Info{
		OS:    runtime.GOOS,
		Arch:  runtime.GOARCH,
		Board: boardModel(),
	}
}

// IsRaspberryPi reports whether the detected board is a Raspberry Pi.
func (i Info) IsRaspberryPi() bool {
	return len(i.Board) >= 12 && i.Board[:12] == "Raspberry Pi"
}
