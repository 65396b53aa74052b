package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "evalrecon")
				So(manager.subsystem, ShouldEqual, "pipeline")
			})
		})

		Convey("When registering on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))
			manager.attendees.Set(7)

			Convey("Then collectors land in that registry only", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "evalrecon_pipeline_attendees" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording a pipeline run", func() {
			before := testutil.ToFloat64(globalManager.pipelineRuns.WithLabelValues("json", "ok"))
			RecordPipelineRun("json", "ok", 12)

			So(testutil.ToFloat64(globalManager.pipelineRuns.WithLabelValues("json", "ok")), ShouldEqual, before+1)
		})

		Convey("When recording fetches", func() {
			before := testutil.ToFloat64(globalManager.fetchErrors.WithLabelValues("csv", "sheet"))
			RecordFetch("csv", "sheet", 3, false)
			RecordFetch("csv", "sheet", 3, true)

			So(testutil.ToFloat64(globalManager.fetchErrors.WithLabelValues("csv", "sheet")), ShouldEqual, before+1)
		})

		Convey("When recording rows, duplicates and orphans", func() {
			mapped := testutil.ToFloat64(globalManager.rowsMapped.WithLabelValues("employees"))
			rejected := testutil.ToFloat64(globalManager.rowsRejected.WithLabelValues("employees"))
			RecordRows("employees", 10, 2)
			dup := testutil.ToFloat64(globalManager.duplicates)
			RecordDuplicates(3)
			orph := testutil.ToFloat64(globalManager.orphans)
			RecordOrphans(1)

			So(testutil.ToFloat64(globalManager.rowsMapped.WithLabelValues("employees")), ShouldEqual, mapped+10)
			So(testutil.ToFloat64(globalManager.rowsRejected.WithLabelValues("employees")), ShouldEqual, rejected+2)
			So(testutil.ToFloat64(globalManager.duplicates), ShouldEqual, dup+3)
			So(testutil.ToFloat64(globalManager.orphans), ShouldEqual, orph+1)
		})

		Convey("When updating gauges", func() {
			UpdateAttendees(42)
			ResetDepartmentPercent()
			UpdateDepartmentPercent("HR", 50)

			So(testutil.ToFloat64(globalManager.attendees), ShouldEqual, 42.0)
			So(testutil.ToFloat64(globalManager.departmentPercent.WithLabelValues("HR")), ShouldEqual, 50.0)

			ResetDepartmentPercent()
			So(testutil.CollectAndCount(globalManager.departmentPercent), ShouldEqual, 0)
		})

		Convey("When recording exports and HTTP traffic", func() {
			So(func() {
				RecordExport("summary", "csv")
				RecordEmptyExport("orphans")
				RecordHTTPRequest("summary", "GET", "200")
				RecordHTTPRequestDuration("summary", "GET", "200", 1.5)
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("summary", "GET", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordExport("summary", "xlsx")
		families, err := GetRegistry().Gather()

		So(err, ShouldBeNil)
		names := make([]string, 0, len(families))
		for _, f := range families {
			names = append(names, f.GetName())
		}
		So(strings.Join(names, ","), ShouldContainSubstring, "evalrecon_pipeline_exports_total")
	})
}
