package main

import (
	"facet-backend/cmd/facet-cli/commands"
	"facet-backend/lib/util/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
