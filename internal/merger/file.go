package merger

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/magiconair/properties"
)

var loader = properties.Loader{
	Encoding:         properties.UTF8,
	DisableExpansion: true,
}

// readPropertyFile opens, parses and closes one property file. A file that
// cannot be opened is logged at warn level, a file that cannot be read or
// parsed at error level; in both cases ok is false.
func readPropertyFile(logger *slog.Logger, path string) (props *properties.Properties, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("cannot open property file", "path", path, "error", err)
		return nil, false
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("could not close property file", "path", path, "error", err)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		logger.Warn("cannot open property file", "path", path, "error", err)
		return nil, false
	}
	if info.IsDir() {
		logger.Warn("cannot open property file", "path", path, "error", fmt.Errorf("%s is a directory", path))
		return nil, false
	}

	props, err = loader.LoadReader(f)
	if err != nil {
		logger.Error("failed to load property file", "path", path, "error", err)
		return nil, false
	}
	return props, true
}

func fileKey(index int) string {
	return "file." + strconv.Itoa(index)
}
