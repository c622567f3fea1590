// Package logger builds the slog loggers injected into the coordination
// components via their WithLogger options.
//
// The factory applies kiosk-appropriate defaults (text output for on-device
// debugging, info level) and tags every record with the owning component:
//
//	log := logger.New(
//	    logger.WithComponent("navigation"),
//	    logger.WithLevel(slog.LevelDebug),
//	)
//	coord := navigation.New(orch, store, navigation.WithLogger(log))
//
// Attr helpers keep key names consistent across components so device logs
// can be filtered by channel, event, or surface id.
package logger
