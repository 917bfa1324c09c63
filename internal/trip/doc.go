// Package trip defines the trip record served by the sort page and how it is
// decoded from a database row. Decoding goes through the Row capability so the
// record never depends on a particular driver.
package trip
