package observability

import (
	"lettersmith/internal/config"
)

// DefaultServiceName identifies this service in traces and metrics
// when configuration is absent.
const DefaultServiceName = "lettersmith"

// GetObservabilityConfig maps the application configuration onto the
// manager's config, falling back to always-on console observability
// when no configuration was loaded. The service version comes from
// the build when the config leaves it empty.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    DefaultServiceName,
			ServiceVersion: version,
			Enabled:        true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus: PrometheusConfig{
				Enabled:  true,
				Endpoint: "/metrics",
				Port:     "9090",
			},
		}
	}

	obs := cfg.Observability

	serviceName := obs.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	return ObservabilityConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Enabled:        obs.Enabled,
		ConsoleOutput:  obs.ConsoleOutput,
		PrettyPrint:    obs.Console.PrettyPrint,
		SampleRate:     obs.SampleRate,
		Prometheus: PrometheusConfig{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
	}
}
