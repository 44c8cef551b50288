/*
Package observability turns form lifecycle events into logs and metrics.

Both LogHooks and Metrics.Hooks return domain.LifecycleHooks; combine them
with domain.ChainHooks and pass the result to formwork.WithLifecycleHooks:

	metrics := observability.NewMetrics()
	hooks := domain.ChainHooks(metrics.Hooks(), observability.LogHooks(logger))
	form, err := formwork.New(content, formwork.WithLifecycleHooks(hooks))

Metrics.Handler serves the collected metrics for Prometheus to scrape.
*/
package observability
