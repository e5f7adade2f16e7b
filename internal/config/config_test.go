package config_test

import (
	"errors"
	"testing"

	"github.com/okian/postboard/internal/adapters/repository"
	"github.com/okian/postboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DBDriver, convey.ShouldEqual, repository.DriverSQLite)
			convey.So(cfg.DBDSN, convey.ShouldEqual, "postboard.db")
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_AllowedOrigins(t *testing.T) {
	convey.Convey("Given a comma separated origin list", t, func() {
		cfg := config.New()
		cfg.CORSAllowedOrigins = " https://a.example ,, https://b.example"

		convey.Convey("Then blanks should be dropped and parts trimmed", func() {
			convey.So(cfg.AllowedOrigins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
		})

		convey.Convey("Then an empty list should yield nothing", func() {
			cfg.CORSAllowedOrigins = ""
			convey.So(cfg.AllowedOrigins(), convey.ShouldBeEmpty)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"empty dsn", func(c *config.Config) { c.DBDSN = "" }},
			{"unknown driver", func(c *config.Config) { c.DBDriver = "oracle" }},
			{"unnormalised driver", func(c *config.Config) { c.DBDriver = "SQLite" }},
			{"unknown format", func(c *config.Config) { c.LogFormat = "xml" }},
			{"negative pool", func(c *config.Config) { c.DBMaxOpenConns = -1 }},
			{"negative slow ms", func(c *config.Config) { c.DBSlowQueryMS = -5 }},
		}
		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)
			err := cfg.Validate()

			convey.Convey("Then "+tc.name+" should be rejected", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then postgres should be accepted", func() {
			cfg := config.New()
			cfg.DBDriver = repository.DriverPostgres
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
