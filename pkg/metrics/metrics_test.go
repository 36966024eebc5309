package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			metricsEnabledOpt := WithMetricsEnabled(true)
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(metricsEnabledOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with a custom registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should register all collectors", func() {
				So(manager, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// Vec collectors stay hidden until a label set is touched;
				// plain counters and gauges show up immediately.
				So(families, ShouldNotBeEmpty)
			})
		})

		Convey("When creating with custom naming", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("suite"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors carry the custom prefix", func() {
				So(manager, ShouldNotBeNil)
				manager.routesTrained.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_suite_routes_trained_total")
			})
		})

		Convey("When registration is disabled", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithMetricsEnabled(false),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the registry stays empty but counters still work", func() {
				So(manager, ShouldNotBeNil)
				manager.predictionsServed.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldBeEmpty)
			})
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the package-level helpers", t, func() {
		Convey("When recording pipeline activity", func() {
			RecordRouteTrained(12.5)
			RecordRouteFailed()
			UpdateTrainingQueueSize(3)
			UpdateTrainerWorkers(4)
			RecordPrediction(24, 3.2)
			RecordPredictionError()
			RecordModelLoad()
			RecordModelSave()
			RecordModelCacheHit()
			RecordModelCacheMiss()
			UpdateStoredRoutes(7)
			RecordHTTPRequest("predict", "POST", "200")
			RecordHTTPRequestDuration("predict", "POST", "200", 1.5)
			RecordHTTPError("predict", "POST", "not_found")

			Convey("Then the shared registry exposes the series", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["sekka_forecast_routes_trained_total"], ShouldBeTrue)
				So(names["sekka_forecast_predictions_served_total"], ShouldBeTrue)
				So(names["sekka_forecast_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
