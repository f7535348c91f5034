package observability

import (
	"context"
	"net/http"
	"testing"

	"github.com/riskibarqy/courtside/internal/config"
	"github.com/riskibarqy/courtside/internal/platform/logging"
	"github.com/stretchr/testify/require"
)

func TestSetup_AllDisabled(t *testing.T) {
	tel, err := Setup(config.Config{ServiceName: "courtside", AppEnv: config.EnvDev}, logging.NewNop())
	require.NoError(t, err)
	require.Empty(t, tel.PprofAddr())
	require.NoError(t, tel.Shutdown(context.Background()))
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetup_UptraceWithoutDSNStaysOff(t *testing.T) {
	tel, err := Setup(config.Config{UptraceEnabled: true, UptraceLogsEnabled: true}, logging.NewNop())
	require.NoError(t, err)
	require.False(t, tel.tracing)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetup_PprofServesIndex(t *testing.T) {
	tel, err := Setup(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(context.Background()) })

	addr := tel.PprofAddr()
	require.NotEmpty(t, addr)

	resp, err := http.Get("http://" + addr + "/debug/pprof/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSetup_PprofPortTakenFails(t *testing.T) {
	first, err := Setup(config.Config{PprofEnabled: true, PprofAddr: "127.0.0.1:0"}, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	_, err = Setup(config.Config{PprofEnabled: true, PprofAddr: first.PprofAddr()}, logging.NewNop())
	require.Error(t, err)
}
