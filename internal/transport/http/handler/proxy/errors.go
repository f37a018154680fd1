package proxy

import (
	"errors"
	"net/http"

	"github.com/mandalnilabja/promptproxy/internal/metrics"
	"github.com/mandalnilabja/promptproxy/internal/provider"
	"github.com/mandalnilabja/promptproxy/internal/types"
)

// errorResponse maps a downstream error to its status, body and metric outcome.
func errorResponse(err error) (int, *types.APIError, string) {
	var (
		spawnErr     *provider.SpawnError
		exitErr      *provider.ExitError
		upstreamErr  *provider.UpstreamError
		transportErr *provider.TransportError
		decodeErr    *provider.DecodeError
	)

	switch {
	case errors.Is(err, provider.ErrTimeout):
		return http.StatusGatewayTimeout, types.NewAPIError(types.ErrLabelTimeout), metrics.OutcomeTimeout

	case errors.Is(err, provider.ErrNoAPIKey):
		return http.StatusInternalServerError, types.NewAPIError(types.ErrLabelNoAPIKey), metrics.OutcomeConfig

	case errors.As(err, &spawnErr):
		return http.StatusInternalServerError,
			types.NewAPIErrorWithMessage(types.ErrLabelSpawnFailed, spawnErr.Err.Error()),
			metrics.OutcomeSpawn

	case errors.As(err, &exitErr):
		return http.StatusInternalServerError, types.NewProcessError(exitErr.Code, exitErr.Stderr), metrics.OutcomeExit

	case errors.As(err, &upstreamErr):
		status := upstreamErr.StatusCode
		if status < 100 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, types.NewUpstreamError(upstreamErr.Body), metrics.OutcomeUpstream

	case errors.As(err, &transportErr):
		return http.StatusInternalServerError,
			types.NewAPIErrorWithMessage(types.ErrLabelTransport, transportErr.Err.Error()),
			metrics.OutcomeTransport

	case errors.As(err, &decodeErr):
		return http.StatusInternalServerError,
			types.NewAPIErrorWithMessage(types.ErrLabelParse, decodeErr.Err.Error()),
			metrics.OutcomeDecode

	default:
		return http.StatusInternalServerError,
			types.NewAPIErrorWithMessage(types.ErrLabelInternal, err.Error()),
			metrics.OutcomeInternal
	}
}
