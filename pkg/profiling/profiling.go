package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/trucklogix/site-api/config"
	"github.com/trucklogix/site-api/pkg/logger"
	"go.uber.org/zap"
)

const defaultUploadInterval = 15 * time.Second

// Start begins continuous profiling when enabled and returns its stop function
func Start(cfg config.ProfilingConfig, obs config.ObservabilityConfig, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}

	profileTypes, err := ParseProfileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	uploadRate := time.Duration(cfg.UploadIntervalSeconds) * time.Second
	if uploadRate <= 0 {
		uploadRate = defaultUploadInterval
	}

	appName := cfg.AppName
	if appName == "" {
		appName = obs.ServiceName
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: appName,
		ServerAddress:   endpoint,
		UploadRate:      uploadRate,
		ProfileTypes:    profileTypes,
		Tags: map[string]string{
			"namespace":       obs.ServiceNamespace,
			"environment":     environment,
			"service_version": obs.ServiceVersion,
			"instance":        obs.ServiceInstanceID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("application_name", appName),
		zap.String("endpoint", endpoint),
		zap.Duration("upload_rate", uploadRate))

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Error("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

// ParseProfileTypes reads a comma separated list such as "cpu,alloc_space,goroutines".
// mutex and block each expand to their count and duration profiles.
func ParseProfileTypes(value string) ([]pyroscope.ProfileType, error) {
	if strings.TrimSpace(value) == "" {
		value = "cpu,alloc_space,goroutines"
	}

	var types []pyroscope.ProfileType
	seen := make(map[pyroscope.ProfileType]bool)
	add := func(ts ...pyroscope.ProfileType) {
		for _, t := range ts {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}

	for _, raw := range strings.Split(value, ",") {
		switch key := strings.ToLower(strings.TrimSpace(raw)); key {
		case "":
			continue
		case "cpu":
			add(pyroscope.ProfileCPU)
		case "alloc_space":
			add(pyroscope.ProfileAllocSpace)
		case "alloc_objects":
			add(pyroscope.ProfileAllocObjects)
		case "inuse_space":
			add(pyroscope.ProfileInuseSpace)
		case "goroutines":
			add(pyroscope.ProfileGoroutines)
		case "mutex":
			add(pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration)
		case "block":
			add(pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration)
		default:
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
	}

	return types, nil
}
