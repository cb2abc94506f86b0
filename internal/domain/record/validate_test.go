package record_test

import (
	"testing"

	"github.com/okian/watchkeep/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func validRow() record.Row {
	return record.Row{
		SleepHours:       "7.5",
		RestViolations:   "1",
		ShipType:         "Tanker",
		Region:           "Asia",
		CalledDuringRest: "Yes",
		PortIntensity:    "High",
	}
}

func TestValidate(t *testing.T) {
	Convey("Given a fully valid row", t, func() {
		row := validRow()

		Convey("Then it should validate into a typed record", func() {
			rec, err := record.Validate(row)
			So(err, ShouldBeNil)
			So(rec.SleepHours, ShouldEqual, 7.5)
			So(rec.RestViolations, ShouldEqual, 1.0)
			So(rec.ShipType, ShouldEqual, "Tanker")
			So(rec.Region, ShouldEqual, "Asia")
			So(rec.CalledDuringRest, ShouldEqual, "Yes")
			So(rec.PortIntensity, ShouldEqual, "High")
		})

		Convey("And the domain boundaries should be inclusive", func() {
			row.SleepHours = "0"
			row.RestViolations = "50"
			_, err := record.Validate(row)
			So(err, ShouldBeNil)

			row.SleepHours = "24"
			row.RestViolations = "0"
			_, err = record.Validate(row)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given out-of-domain numeric values", t, func() {
		Convey("When sleep hours exceed the domain by one hundredth", func() {
			row := validRow()
			row.SleepHours = "24.01"
			_, err := record.Validate(row)

			var verr *record.ValidationError
			So(err, ShouldNotBeNil)
			So(err, ShouldHaveSameTypeAs, verr)
			verr = err.(*record.ValidationError)
			So(verr.Field, ShouldEqual, "sleep_hours")
			So(verr.Error(), ShouldContainSubstring, "sleep_hours")
			So(verr.Error(), ShouldContainSubstring, "between 0 and 24")
		})

		Convey("When sleep hours are negative", func() {
			row := validRow()
			row.SleepHours = "-0.01"
			_, err := record.Validate(row)
			So(err, ShouldNotBeNil)
		})

		Convey("When rest violations exceed the domain", func() {
			row := validRow()
			row.RestViolations = "50.01"
			_, err := record.Validate(row)

			verr := err.(*record.ValidationError)
			So(verr.Field, ShouldEqual, "rest_violations")
			So(verr.Error(), ShouldContainSubstring, "between 0 and 50")
		})

		Convey("When a numeric field is not a number", func() {
			row := validRow()
			row.SleepHours = "plenty"
			_, err := record.Validate(row)

			verr := err.(*record.ValidationError)
			So(verr.Field, ShouldEqual, "sleep_hours")
		})

		Convey("When a numeric field is empty", func() {
			row := validRow()
			row.RestViolations = ""
			_, err := record.Validate(row)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given enum fields", t, func() {
		Convey("Then every member of every set should be accepted", func() {
			for _, st := range record.ShipTypes {
				row := validRow()
				row.ShipType = st
				_, err := record.Validate(row)
				So(err, ShouldBeNil)
			}
			for _, rg := range record.Regions {
				row := validRow()
				row.Region = rg
				_, err := record.Validate(row)
				So(err, ShouldBeNil)
			}
			for _, c := range record.CalledDuringRest {
				row := validRow()
				row.CalledDuringRest = c
				_, err := record.Validate(row)
				So(err, ShouldBeNil)
			}
			for _, p := range record.PortIntensities {
				row := validRow()
				row.PortIntensity = p
				_, err := record.Validate(row)
				So(err, ShouldBeNil)
			}
		})

		Convey("Then a non-member value should be rejected naming the set", func() {
			row := validRow()
			row.ShipType = "Submarine"
			_, err := record.Validate(row)

			verr := err.(*record.ValidationError)
			So(verr.Field, ShouldEqual, "ship_type")
			So(verr.Error(), ShouldContainSubstring, "Tanker, Bulk, Container, Gas, Other")
		})

		Convey("Then matching should be case-sensitive", func() {
			row := validRow()
			row.Region = "asia"
			_, err := record.Validate(row)
			So(err, ShouldNotBeNil)

			row = validRow()
			row.CalledDuringRest = "YES"
			_, err = record.Validate(row)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a row with several violations", t, func() {
		row := validRow()
		row.SleepHours = "99"
		row.ShipType = "Submarine"

		Convey("Then only the first violation is reported", func() {
			_, err := record.Validate(row)
			verr := err.(*record.ValidationError)
			So(verr.Field, ShouldEqual, "sleep_hours")
		})
	})
}
