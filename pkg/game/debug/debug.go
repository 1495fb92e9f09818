//go:build !js

package debug

import "github.com/rs/zerolog/log"

func Log(format string, args ...any) {
	log.Debug().Msgf(format, args...)
}
