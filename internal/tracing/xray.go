// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-xray-sdk-go/strategy/ctxmissing"
	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"

	"github.com/rattyBongo53i/Football-Match-Analysis-API-Package-sub000/internal/config"
)

var enabled atomic.Bool

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Logger
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.logger.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg.String())
	case xraylog.LogLevelError:
		l.logger.Error(msg.String())
	}
}

// samplingRules is a localized rule set that samples rate of all requests
// plus one per second.
func samplingRules(rate float64) []byte {
	return []byte(fmt.Sprintf(`{"version":2,"rules":[],"default":{"fixed_target":1,"rate":%g}}`, rate))
}

// Initialize configures the X-Ray recorder. Until it succeeds with tracing
// enabled, Start returns no-op spans.
func Initialize(cfg config.TracingConfig, serviceVersion string, logger *logrus.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	strategy, err := sampling.NewLocalizedStrategyFromJSONBytes(samplingRules(cfg.SamplingRate))
	if err != nil {
		return fmt.Errorf("failed to build sampling strategy: %w", err)
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger})
	if err := xray.Configure(xray.Config{
		DaemonAddr:             cfg.DaemonAddr,
		ServiceVersion:         serviceVersion,
		SamplingStrategy:       strategy,
		ContextMissingStrategy: ctxmissing.NewDefaultLogErrorStrategy(),
	}); err != nil {
		return fmt.Errorf("failed to configure x-ray: %w", err)
	}
	enabled.Store(true)

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Span is an open segment or subsegment. The zero value does nothing.
type Span struct {
	seg *xray.Segment
}

// Start opens a segment, or a subsegment when ctx already carries one.
func Start(ctx context.Context, name string) (context.Context, Span) {
	if !enabled.Load() {
		return ctx, Span{}
	}
	if xray.GetSegment(ctx) != nil {
		ctx, seg := xray.BeginSubsegment(ctx, name)
		return ctx, Span{seg: seg}
	}
	ctx, seg := xray.BeginSegment(ctx, name)
	return ctx, Span{seg: seg}
}

// Annotate adds an indexed key to the span.
func (s Span) Annotate(key string, value interface{}) {
	if s.seg != nil {
		_ = s.seg.AddAnnotation(key, value)
	}
}

// End closes the span, recording err when non-nil.
func (s Span) End(err error) {
	if s.seg != nil {
		s.seg.Close(err)
	}
}
