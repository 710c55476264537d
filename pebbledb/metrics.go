package pebbledb

import "github.com/VictoriaMetrics/metrics"

var (
	writesTotal        = metrics.NewCounter("domainstore_writes_total")
	deletesTotal       = metrics.NewCounter("domainstore_deletes_total")
	getsTotal          = metrics.NewCounter("domainstore_gets_total")
	scansTotal         = metrics.NewCounter("domainstore_scans_total")
	repairsTotal       = metrics.NewCounter("domainstore_repairs_total")
	readOnlySkipsTotal = metrics.NewCounter("domainstore_readonly_skips_total")
)
