package config_test

import (
	"testing"

	"github.com/okian/podium/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestNewConfig(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.PostgresDSN, convey.ShouldBeEmpty)
			convey.So(cfg.HistoryLimit, convey.ShouldEqual, 100)
			convey.So(cfg.ClaimMinPoints, convey.ShouldEqual, 1)
			convey.So(cfg.ClaimMaxPoints, convey.ShouldEqual, 100)
			convey.So(cfg.BroadcastQueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.ObserverBuffer, convey.ShouldEqual, 256)
			convey.So(cfg.SeedParticipants, convey.ShouldContain, "Rahul")
		})
	})
}
