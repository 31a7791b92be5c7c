package config_test

import (
	"context"
	"testing"

	"github.com/edash/edash/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.MaxPageSize, convey.ShouldEqual, 100)
			convey.So(cfg.ActivitySize, convey.ShouldEqual, 200)
			convey.So(cfg.MetricsIntervalMS, convey.ShouldEqual, 10_000)
		})
	})
}
