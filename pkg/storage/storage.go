// Package storage persists forecasting runs in BuntDB or a SQL database
package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/raykavin/stockcast/pkg/core"
)

// Closer is a run storage holding an open database
type Closer interface {
	core.RunStorage
	io.Closer
}

// Open selects a backend by driver name: "memory", "bunt" or "sqlite"
func Open(driver, path string) (Closer, error) {
	switch strings.ToLower(driver) {
	case "memory", "":
		return FromMemory()
	case "bunt", "buntdb":
		return FromFile(path)
	case "sqlite", "sql":
		return FromSQLite(path)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}
