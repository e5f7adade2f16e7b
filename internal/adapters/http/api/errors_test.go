package api

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestWrapKind(t *testing.T) {
	Convey("Given an error wrapped with a kind", t, func() {
		cause := errors.New("userName is required")
		err := WrapKind("api.create_user", ErrBadRequest, cause)

		Convey("Then it should match both the kind and the cause", func() {
			So(errors.Is(err, ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, ErrNotFound), ShouldBeFalse)
		})

		Convey("Then its message should be the cause's", func() {
			So(err.Error(), ShouldEqual, "userName is required")
		})
	})

	Convey("Given a kind without a cause", t, func() {
		err := WrapKind("api.health", ErrUnavailable, nil)

		Convey("Then its message should be the kind's", func() {
			So(err.Error(), ShouldEqual, "unavailable")
			So(errors.Is(err, ErrUnavailable), ShouldBeTrue)
		})
	})
}
