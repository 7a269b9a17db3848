/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"io"

	"github.com/hyperledger/fabric-lib-go/common/flogging"
)

const (
	// DefaultSpec enables INFO for every logger
	DefaultSpec = "info"
	// DefaultFormat is used when no format is configured
	DefaultFormat = "%{color}%{time:2006-01-02 15:04:05.000 MST} [%{module}] %{shortfunc} -> %{level:.4s}%{color:reset} %{message}"
)

type Config struct {
	// Format is the log record format specifier for the Logging instance. If the
	// spec is the string "json", log records will be formatted as JSON. Any
	// other string will be provided to the FormatEncoder.
	//
	// If Format is not provided, DefaultFormat is used.
	Format string
	// LogSpec determines the log levels that are enabled for the logging system.
	//
	// If LogSpec is not provided, loggers will be enabled at the INFO level.
	LogSpec string
	// Writer is the sink for encoded and formatted log records.
	//
	// If a Writer is not provided, os.Stderr will be used as the log sink.
	Writer io.Writer
}

func Init(c Config) {
	if len(c.Format) == 0 {
		c.Format = DefaultFormat
	}
	if len(c.LogSpec) == 0 {
		c.LogSpec = DefaultSpec
	}
	flogging.Init(flogging.Config{
		Format:  c.Format,
		LogSpec: c.LogSpec,
		Writer:  c.Writer,
	})
}

// ActivateSpec changes the enabled levels without touching format or writer.
func ActivateSpec(spec string) {
	flogging.ActivateSpec(spec)
}
