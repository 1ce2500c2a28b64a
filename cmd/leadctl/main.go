// Command leadctl is an operator tool for the lead funnel: read the applied
// counters, send a lead through the same multi-step flow the landing page
// uses, and check the email transport.
package main

import (
	"os"

	"lead_funnel_go/config"
)

func main() {
	cfg := config.Load()
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
