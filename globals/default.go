package globals

import "github.com/hashicorp/go-hclog"

var AppLogger = hclog.New(&hclog.LoggerOptions{
	Name:  "tension-meeting",
	Level: hclog.LevelFromString("INFO"),
})
