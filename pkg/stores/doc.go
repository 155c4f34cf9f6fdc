// Package stores persists detection snapshots. Each snapshot records the host facts
// and the virtual packages reported for them, so past detections can be listed and
// compared. The SQLite implementation runs embedded migrations on startup.
package stores
