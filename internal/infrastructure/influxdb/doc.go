// Package influxdb provides time-series recording of compiled protocol
// output.
//
// When enabled, each compiled protocol's inspection-form windows are
// written as points so dashboards can plot what every component will be
// doing over the course of a run. Writes are non-blocking and batched;
// async failures surface through the SetOnError callback.
package influxdb
