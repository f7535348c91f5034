package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	require.True(t, shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/healthz"}))
	require.True(t, shouldSkipUptraceLog("http request", []any{"path", "/v1/status"}))
	require.False(t, shouldSkipUptraceLog("http request", []any{"path", "/v1/courts"}))
	require.False(t, shouldSkipUptraceLog("espn scoreboard request", []any{"path", "/healthz"}))
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"court_id", 4, "player_name", "Maya", "attempt", uint8(2), "payload"})
	require.Len(t, attrs, 4)

	require.Equal(t, "court_id", attrs[0].Key)
	require.EqualValues(t, 4, attrs[0].Value.AsInt64())
	require.Equal(t, "player_name_len", attrs[1].Key)
	require.EqualValues(t, 4, attrs[1].Value.AsInt64())
	require.EqualValues(t, 2, attrs[2].Value.AsInt64())
	require.Equal(t, otellog.KindEmpty, attrs[3].Value.Kind())
}

func TestToOTelLogValue_MapWithIntKeys(t *testing.T) {
	v := toOTelLogValue(map[int]int{2: 5, 1: 3}, 0)
	require.Equal(t, otellog.KindMap, v.Kind())

	items := v.AsMap()
	require.Len(t, items, 2)
	require.Equal(t, "1", items[0].Key)
	require.EqualValues(t, 3, items[0].Value.AsInt64())
}
