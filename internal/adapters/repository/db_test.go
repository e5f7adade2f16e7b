package repository

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWithForeignKeys(t *testing.T) {
	Convey("Given SQLite DSNs", t, func() {
		Convey("Then a bare path should gain the pragma", func() {
			So(withForeignKeys("postboard.db"), ShouldEqual, "postboard.db?_foreign_keys=on")
		})

		Convey("Then a DSN with a query should be extended", func() {
			So(withForeignKeys(MemoryDSN("x")), ShouldEqual, "file:x?mode=memory&cache=shared&_foreign_keys=on")
		})

		Convey("Then an explicit setting should be kept", func() {
			So(withForeignKeys("a.db?_fk=0"), ShouldEqual, "a.db?_fk=0")
		})
	})
}
