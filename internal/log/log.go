/*
Copyright 2025 The KCP Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/zapr"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/klog/v2"
)

// Format is the output format of the logger.
type Format string

const (
	FormatJSON    Format = "JSON"
	FormatConsole Format = "Console"
)

var AvailableFormats = []Format{FormatJSON, FormatConsole}

func (f *Format) Type() string {
	return "string"
}

func (f *Format) String() string {
	return string(*f)
}

// Set implements pflag.Value and accepts the format case-insensitively.
func (f *Format) Set(s string) error {
	for _, format := range AvailableFormats {
		if strings.EqualFold(s, string(format)) {
			*f = format
			return nil
		}
	}

	return fmt.Errorf("invalid format %q, must be one of %v", s, AvailableFormats)
}

type Options struct {
	// Debug enables debug-level messages.
	Debug bool
	// Format selects the encoder.
	Format Format
}

func NewDefaultOptions() Options {
	return Options{
		Debug:  false,
		Format: FormatJSON,
	}
}

func (o *Options) AddPFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Debug, "log-debug", o.Debug, "Enables more verbose logging")
	fs.Var(&o.Format, "log-format", fmt.Sprintf("Log format, one of %v", AvailableFormats))
}

func (o *Options) Validate() error {
	if !sets.New(AvailableFormats...).Has(o.Format) {
		return fmt.Errorf("invalid log-format specified %q; available: %v", o.Format, AvailableFormats)
	}

	return nil
}

// New returns a logger that writes to stderr.
func New(debug bool, format Format) *zap.Logger {
	return NewWithWriter(os.Stderr, debug, format)
}

func NewFromOptions(o Options) *zap.Logger {
	return New(o.Debug, o.Format)
}

func NewWithWriter(w io.Writer, debug bool, format Format) *zap.Logger {
	sink := zapcore.AddSync(w)

	lvl := zap.NewAtomicLevelAt(zap.InfoLevel)
	if debug {
		lvl.SetLevel(zap.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == FormatConsole {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	return zap.New(zapcore.NewCore(enc, sink, lvl), zap.AddCaller(), zap.ErrorOutput(sink))
}

// RedirectKlog sends client-go's log output through the given logger.
func RedirectKlog(log *zap.Logger) {
	klog.SetLogger(zapr.NewLogger(log.WithOptions(zap.AddCallerSkip(1))))
}
