package goacornflow

import (
	"github.com/Keksclan/goAcornFlow/internal/core"
	"github.com/Keksclan/goAcornFlow/middleware"
	"github.com/Keksclan/goAcornFlow/snapshot"
)

// config holds the internal configuration assembled via functional options.
type config struct {
	middlewares core.MiddlewareBuilder

	l1   *snapshot.L1
	l2   *snapshot.L2
	snap *middleware.SnapshotConfig
}
