package main

import (
	"ubsched/cmd/ubsched/commands"
	"ubsched/lib/serviceutil"
	"ubsched/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "ubsched")
	commands.ExecuteContext(ctx)
}
