package telemetry

import (
	"context"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// WithProfilingLabels runs fn with pprof labels attached, so CPU samples
// taken inside fn can be filtered by them in Pyroscope. Label pairs with
// an empty key or value are skipped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := make([]string, 0, len(labels)*2)
	for k, v := range labels {
		k = sanitizeLabelKey(k)
		if k == "" || v == "" {
			continue
		}
		pairs = append(pairs, k, v)
	}
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels labels work done for one ledger operation
func OperationLabels(operation string) map[string]string {
	return map[string]string{"ledger_operation": operation}
}

// HTTPLabels labels work done for one HTTP route
func HTTPLabels(method, route string) map[string]string {
	return map[string]string{"http_method": method, "http_route": route}
}

// sanitizeLabelKey keeps letters, digits and underscores; Pyroscope rejects anything else
func sanitizeLabelKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		case r == '.' || r == '-' || r == ' ':
			return '_'
		default:
			return -1
		}
	}, key)
}
