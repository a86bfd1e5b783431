package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency         = metric.NewHistogram("1m1s")
	MailboxDepth            = metric.NewHistogram("10s1s")
	UpdatesPerSecond        = metric.NewCounter("10s1s")
	LinkChangesPerSecond    = metric.NewCounter("10s1s")
	AdvertisementsPerSecond = metric.NewCounter("10s1s")
	RejectsPerSecond        = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("dvnode:MailboxDepth", MailboxDepth)

	expvar.Publish("dvnode:Updates/s", UpdatesPerSecond)
	expvar.Publish("dvnode:LinkChanges/s", LinkChangesPerSecond)
	expvar.Publish("dvnode:Advertisements/s", AdvertisementsPerSecond)
	expvar.Publish("dvnode:Rejects/s", RejectsPerSecond)
	expvar.Publish("dvnode:DispatchLatency (µs)", DispatchLatency)
}
