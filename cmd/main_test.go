package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"
)

const (
	employeesJSON = `{"data":[
		{"nik":"1","nama":"A","departemen":"HR"},
		{"nik":"2","nama":"B","departemen":"HR"},
		{"nik":"3","nama":"C","departemen":"IT"}]}`
	responsesJSON = `[{"nik":"1","nilai":90,"waktu":"t1"}]`
)

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("action") {
		case "employees":
			_, _ = w.Write([]byte(employeesJSON))
		case "responses":
			_, _ = w.Write([]byte(responsesJSON))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func execute(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestExportCommand(t *testing.T) {
	srv := backend(t)
	t.Setenv("EVALRECON_SOURCE", "json")
	t.Setenv("EVALRECON_BACKEND_URL", srv.URL)

	convey.Convey("Given a JSON backend with two departments", t, func() {
		dir := t.TempDir()

		convey.Convey("When exporting the summary", func() {
			stdout, _, err := execute("export", "summary", "--out", dir)

			convey.Convey("Then a dated CSV file is written", func() {
				convey.So(err, convey.ShouldBeNil)
				name := "summary_semua_" + time.Now().Format(time.DateOnly) + ".csv"
				path := filepath.Join(dir, name)
				convey.So(stdout, convey.ShouldEqual, path+"\n")

				data, readErr := os.ReadFile(path)
				convey.So(readErr, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual,
					"departemen,total,done,pending,percent\n"+
						`"HR","2","1","1","50"`+"\n"+
						`"IT","1","0","1","0"`)
			})
		})

		convey.Convey("When exporting pending attendees of IT as XLSX", func() {
			_, _, err := execute("export", "pending", "--department", "IT", "--format", "xlsx", "--out", dir)

			convey.Convey("Then a workbook is written", func() {
				convey.So(err, convey.ShouldBeNil)
				matches, _ := filepath.Glob(filepath.Join(dir, "pending_IT_*.xlsx"))
				convey.So(matches, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When there are no orphans", func() {
			stdout, stderr, err := execute("export", "orphans", "--out", dir)

			convey.Convey("Then the command warns and succeeds without a file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stdout, convey.ShouldBeEmpty)
				convey.So(stderr, convey.ShouldContainSubstring, "nothing to export")
				entries, _ := os.ReadDir(dir)
				convey.So(entries, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the kind is unknown", func() {
			_, _, err := execute("export", "ranking", "--out", dir)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the format is unknown", func() {
			_, _, err := execute("export", "summary", "--format", "pdf", "--out", dir)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestExportCommandUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("EVALRECON_SOURCE", "json")
	t.Setenv("EVALRECON_BACKEND_URL", srv.URL)

	convey.Convey("Given a failing backend", t, func() {
		_, _, err := execute("export", "summary", "--out", t.TempDir())

		convey.Convey("Then the command fails", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "status 500")
		})
	})
}

func TestMissingSourceURL(t *testing.T) {
	t.Setenv("EVALRECON_SOURCE", "csv")
	t.Setenv("EVALRECON_SHEET_URL", "")

	convey.Convey("Given csv mode without a sheet url", t, func() {
		_, _, err := execute("export", "summary", "--out", t.TempDir())

		convey.Convey("Then the source cannot be built", func() {
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "sheet_url")
		})
	})
}

func TestServeCommand(t *testing.T) {
	srv := backend(t)
	t.Setenv("EVALRECON_SOURCE", "json")
	t.Setenv("EVALRECON_BACKEND_URL", srv.URL)

	convey.Convey("Given the serve command on a free port", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		root := newRootCmd()
		root.SetArgs([]string{"serve", "--addr", "127.0.0.1:0"})
		root.SetErr(&bytes.Buffer{})

		done := make(chan error, 1)
		go func() { done <- root.ExecuteContext(ctx) }()

		convey.Convey("When the context is cancelled", func() {
			time.Sleep(100 * time.Millisecond)
			cancel()

			convey.Convey("Then it shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("timeout", convey.ShouldBeEmpty)
				}
			})
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
	})
}
