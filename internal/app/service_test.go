package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/evalrecon/internal/adapters/export"
	"github.com/okian/evalrecon/internal/adapters/source"
	service "github.com/okian/evalrecon/internal/app"
	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/okian/evalrecon/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type stubSource struct {
	ds    model.Dataset
	err   error
	calls int
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Load(context.Context) (model.Dataset, error) {
	s.calls++
	return s.ds, s.err
}

func score(v float64) *float64 { return &v }

func scenario() model.Dataset {
	return model.Dataset{
		Attendees: []model.Attendee{
			{ID: "1", Name: "A", Department: "HR"},
			{ID: "2", Name: "B", Department: "HR"},
			{ID: "3", Name: "C", Department: "IT"},
		},
		Responses: []model.Response{
			{ID: "1", Score: score(90), Timestamp: "t1"},
		},
	}
}

var fixedNow = time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

func newService(src source.Source) *service.Service {
	return service.New(
		service.WithSource(src),
		service.WithLogger(logger.NewNop()),
		service.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestService_Run(t *testing.T) {
	Convey("Given a service without a source", t, func() {
		svc := service.New()

		Convey("Then running fails", func() {
			_, err := svc.Run(context.Background())
			So(errors.Is(err, service.ErrNoSource), ShouldBeTrue)
			So(svc.SourceName(), ShouldBeEmpty)
		})
	})

	Convey("Given two employees in HR and one in IT with one response", t, func() {
		src := &stubSource{ds: scenario()}
		svc := newService(src)

		report, err := svc.Run(context.Background())

		Convey("Then the department summary matches", func() {
			So(err, ShouldBeNil)
			So(report.Departments, ShouldResemble, []model.DepartmentSummary{
				{Department: "HR", Total: 2, Done: 1, Pending: 1, Percent: 50},
				{Department: "IT", Total: 1, Done: 0, Pending: 1, Percent: 0},
			})
			So(report.Total, ShouldResemble, model.DepartmentSummary{
				Department: "semua", Total: 3, Done: 1, Pending: 2, Percent: 33,
			})
		})

		Convey("Then the report is stamped", func() {
			So(report.RunID, ShouldNotBeEmpty)
			So(report.Source, ShouldEqual, "stub")
			So(report.GeneratedAt, ShouldEqual, fixedNow)
		})

		Convey("Then each invocation fetches again", func() {
			again, err := svc.Run(context.Background())
			So(err, ShouldBeNil)
			So(src.calls, ShouldEqual, 2)
			So(again.RunID, ShouldNotEqual, report.RunID)
		})
	})

	Convey("Given a service logging to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.InitWriter(&buf), ShouldBeNil)
		svc := service.New(
			service.WithSource(&stubSource{ds: scenario()}),
			service.WithLogger(logger.Get()),
		)

		report, err := svc.Run(context.Background())

		Convey("Then the run is logged with its id and timing", func() {
			So(err, ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, `"msg":"pipeline finished"`)
			So(out, ShouldContainSubstring, `"run_id":"`+report.RunID+`"`)
			So(out, ShouldContainSubstring, `"duration_ms":`)
			So(out, ShouldContainSubstring, `"percent":33`)
		})
	})

	Convey("Given a source that fails", t, func() {
		cause := &source.TransportError{Dataset: "employees", URL: "http://x", StatusCode: 500}
		svc := newService(&stubSource{err: cause})

		_, err := svc.Run(context.Background())

		Convey("Then the transport error propagates", func() {
			So(errors.Is(err, source.ErrTransport), ShouldBeTrue)
		})
	})
}

func TestBuild(t *testing.T) {
	Convey("Given duplicates, orphans and rejected rows", t, func() {
		ds := model.Dataset{
			Attendees: []model.Attendee{
				{ID: "10", Name: "Jane", Department: "Sales"},
				{ID: " 10 ", Name: "Jane Again", Department: "Sales"},
				{ID: "11", Name: "Raj", Department: "Ops"},
			},
			Responses: []model.Response{
				{ID: "10", Timestamp: "first"},
				{ID: "10", Timestamp: "second"},
				{ID: "99", Timestamp: "ghost"},
			},
			RejectedAttendees: 2,
			RejectedResponses: 1,
		}

		report := service.Build(ds)

		Convey("Then the first attendee per identity is kept", func() {
			So(report.Attendees, ShouldHaveLength, 2)
			So(report.Attendees[0].Name, ShouldEqual, "Jane")
		})

		Convey("Then both colliding entries are listed", func() {
			So(report.Duplicates, ShouldHaveLength, 2)
			So(report.Duplicates[1].Name, ShouldEqual, "Jane Again")
		})

		Convey("Then the first response wins", func() {
			So(*report.Records[0].Timestamp, ShouldEqual, "first")
		})

		Convey("Then unmatched responses are orphans", func() {
			So(report.Orphans, ShouldResemble, []model.Response{{ID: "99", Timestamp: "ghost"}})
		})

		Convey("Then totals equal the deduplicated attendee count", func() {
			So(report.Total.Done+report.Total.Pending, ShouldEqual, len(report.Attendees))
			So(report.RejectedAttendees, ShouldEqual, 2)
			So(report.RejectedResponses, ShouldEqual, 1)
		})
	})

	Convey("Given attendees and no responses", t, func() {
		report := service.Build(model.Dataset{Attendees: scenario().Attendees})

		Convey("Then everyone is pending", func() {
			So(report.Total.Pending, ShouldEqual, 3)
			So(report.Total.Done, ShouldEqual, 0)
		})
	})
}

func TestReport_Filter(t *testing.T) {
	Convey("Given a scenario report", t, func() {
		report := service.Build(scenario())

		Convey("When filtering by department", func() {
			So(report.Filter("HR", ""), ShouldHaveLength, 2)
			So(report.Filter("hr", ""), ShouldBeEmpty)
			So(report.Filter("semua", ""), ShouldHaveLength, 3)
			So(report.Filter("", ""), ShouldHaveLength, 3)
		})

		Convey("When filtering by status", func() {
			pending := report.Filter("", model.StatusPending)
			So(pending, ShouldHaveLength, 2)
			So(pending[0].Name, ShouldEqual, "B")
			So(report.Filter("HR", model.StatusDone), ShouldHaveLength, 1)
		})

		Convey("When selecting summaries", func() {
			So(report.Summaries("IT"), ShouldResemble, []model.DepartmentSummary{
				{Department: "IT", Total: 1, Pending: 1},
			})
			So(report.Summaries("Finance"), ShouldBeEmpty)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given kind and format names", t, func() {
		k, err := service.ParseKind(" Pending ")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, service.KindPending)

		_, err = service.ParseKind("ranking")
		So(errors.Is(err, service.ErrUnknownKind), ShouldBeTrue)

		f, err := service.ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, service.FormatCSV)

		f, err = service.ParseFormat("XLSX")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, service.FormatXLSX)

		_, err = service.ParseFormat("pdf")
		So(errors.Is(err, service.ErrUnknownFormat), ShouldBeTrue)
	})
}

func TestService_Export(t *testing.T) {
	Convey("Given a service over the scenario", t, func() {
		svc := newService(&stubSource{ds: scenario()})
		ctx := context.Background()

		Convey("When exporting the summary as CSV", func() {
			file, err := svc.Export(ctx, service.KindSummary, "", service.FormatCSV)

			Convey("Then the file follows the naming convention", func() {
				So(err, ShouldBeNil)
				So(file.Name, ShouldEqual, "summary_semua_2024-03-09.csv")
				So(file.ContentType, ShouldStartWith, "text/csv")
				So(string(file.Data), ShouldEqual, strings.Join([]string{
					"departemen,total,done,pending,percent",
					`"HR","2","1","1","50"`,
					`"IT","1","0","1","0"`,
				}, "\n"))
			})
		})

		Convey("When exporting pending attendees of HR", func() {
			file, err := svc.Export(ctx, service.KindPending, "HR", service.FormatCSV)

			Convey("Then only B is listed", func() {
				So(err, ShouldBeNil)
				So(file.Name, ShouldEqual, "pending_HR_2024-03-09.csv")
				So(string(file.Data), ShouldEqual,
					"nik,nama,departemen,status,nilai,waktu\n"+`"2","B","HR","pending","",""`)
			})
		})

		Convey("When exporting attendance as XLSX", func() {
			file, err := svc.Export(ctx, service.KindAttendance, "semua", service.FormatXLSX)

			Convey("Then a workbook is produced", func() {
				So(err, ShouldBeNil)
				So(file.Name, ShouldEqual, "attendance_semua_2024-03-09.xlsx")
				So(string(file.Data[:2]), ShouldEqual, "PK")
			})
		})

		Convey("When there are no orphans to export", func() {
			file, err := svc.Export(ctx, service.KindOrphans, "", service.FormatCSV)

			Convey("Then nothing is exported", func() {
				So(file, ShouldBeNil)
				So(errors.Is(err, export.ErrNothingToExport), ShouldBeTrue)
			})
		})
	})
}
