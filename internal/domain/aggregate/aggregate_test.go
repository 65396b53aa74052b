package aggregate_test

import (
	"testing"

	"github.com/okian/evalrecon/internal/domain/aggregate"
	"github.com/okian/evalrecon/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func rec(dept string, s model.Status) model.ReconciledRecord {
	return model.ReconciledRecord{Department: dept, Status: s}
}

func TestPercent(t *testing.T) {
	convey.Convey("Given done and total counts", t, func() {
		convey.So(aggregate.Percent(1, 3), convey.ShouldEqual, 33)
		convey.So(aggregate.Percent(2, 3), convey.ShouldEqual, 67)
		convey.So(aggregate.Percent(1, 2), convey.ShouldEqual, 50)
		convey.So(aggregate.Percent(1, 8), convey.ShouldEqual, 13)
		convey.So(aggregate.Percent(0, 5), convey.ShouldEqual, 0)
		convey.So(aggregate.Percent(5, 5), convey.ShouldEqual, 100)
		convey.So(aggregate.Percent(0, 0), convey.ShouldEqual, 0)
	})
}

func TestByDepartment(t *testing.T) {
	convey.Convey("Given records across departments", t, func() {
		records := []model.ReconciledRecord{
			rec("IT", model.StatusPending),
			rec("HR", model.StatusDone),
			rec("HR", model.StatusPending),
			rec("hr", model.StatusDone),
			rec("Finance", model.StatusDone),
		}

		out := aggregate.ByDepartment(records)

		convey.Convey("Then departments are sorted and case-sensitive", func() {
			convey.So(len(out), convey.ShouldEqual, 4)
			convey.So(out[0].Department, convey.ShouldEqual, "Finance")
			convey.So(out[1].Department, convey.ShouldEqual, "HR")
			convey.So(out[2].Department, convey.ShouldEqual, "IT")
			convey.So(out[3].Department, convey.ShouldEqual, "hr")
		})

		convey.Convey("Then counts and percent are computed", func() {
			convey.So(out[1], convey.ShouldResemble, model.DepartmentSummary{
				Department: "HR", Total: 2, Done: 1, Pending: 1, Percent: 50,
			})
			convey.So(out[2], convey.ShouldResemble, model.DepartmentSummary{
				Department: "IT", Total: 1, Done: 0, Pending: 1, Percent: 0,
			})
		})

		convey.Convey("Then done plus pending equals the record count", func() {
			sum := 0
			for _, s := range out {
				sum += s.Done + s.Pending
			}
			convey.So(sum, convey.ShouldEqual, len(records))
		})

		convey.Convey("Then the overall row folds every department", func() {
			total := aggregate.Totals(out)
			convey.So(total, convey.ShouldResemble, model.DepartmentSummary{
				Department: aggregate.AllDepartments, Total: 5, Done: 3, Pending: 2, Percent: 60,
			})
		})
	})

	convey.Convey("Given no records", t, func() {
		out := aggregate.ByDepartment(nil)

		convey.So(out, convey.ShouldBeEmpty)
		convey.So(aggregate.Totals(out).Percent, convey.ShouldEqual, 0)
	})
}

func TestGroup(t *testing.T) {
	convey.Convey("Given records", t, func() {
		groups := aggregate.Group([]model.ReconciledRecord{
			{Name: "A", Department: "HR"},
			{Name: "B", Department: "IT"},
			{Name: "C", Department: "HR"},
		})

		convey.So(len(groups), convey.ShouldEqual, 2)
		convey.So(len(groups["HR"]), convey.ShouldEqual, 2)
		convey.So(groups["HR"][1].Name, convey.ShouldEqual, "C")
	})
}
