package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test-namespace")
				So(manager.subsystem, ShouldEqual, "test-subsystem")
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording through them", func() {
			Convey("Then they should not panic", func() {
				So(func() {
					RecordScoreComputed()
					RecordScoreUpdateSkipped()
					RecordAssistantQuery("summary")
					RecordAssistantAction("filter_at_risk")
					UpdateStudentsTotal(42)
					UpdateActivityEntries(7)
					RecordStoreQueryLatency(1.5)
					RecordHTTPRequest("students", "GET", "200")
					RecordHTTPRequestDuration("students", "GET", "200", 12.5)
					RecordHTTPError("students", "POST", "client_error")
				}, ShouldNotPanic)
			})
		})

		Convey("When reading the registry", func() {
			Convey("Then the custom registry is exposed", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
