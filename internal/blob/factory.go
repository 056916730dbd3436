package blob

import (
	"context"
	"fmt"
)

// Settings selects and configures a blob backend. It is filled from the process
// configuration by callers so this package stays free of environment parsing.
type Settings struct {
	Driver Driver
	FSRoot string
	S3     S3Config
}

// Open constructs the blob.Store named by settings.Driver (default fs).
func Open(ctx context.Context, settings Settings) (Store, error) {
	driver := settings.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(settings.FSRoot)
	case DriverS3:
		return NewS3(ctx, settings.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
