package main

import (
	"campusdining-backend/cmd/dining-cli/commands"
	"campusdining-backend/lib/serviceutil"
	"campusdining-backend/lib/telemetry"
)

func main() {
	telemetry.InitSlog(true)
	commands.ExecuteContext(serviceutil.SignalContext())
}
