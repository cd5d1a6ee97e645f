// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Every read-modify-write sequence runs inside one read-write transaction
// of the record store. Services are pure Go with no CGO.
package services
