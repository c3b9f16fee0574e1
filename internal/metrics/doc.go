// Package metrics records link check metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// need nil checks. PrometheusRecorder collects into a registry that the CLI
// writes in the node_exporter textfile format when a metrics file is
// configured, which suits one-shot runs in CI where nothing scrapes an
// endpoint.
package metrics
