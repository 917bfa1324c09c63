// Package healthcheck implements periodic health checking for the database
// pool. It pings the pool on an interval and logs when the database goes
// down or comes back.
package healthcheck
