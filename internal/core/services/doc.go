// Package services contains the core application services: the sync
// orchestrator, the scheduler driver, the handler registry, and the CRUD
// services for entanglements, zoku, qupts, sources, and jewels.
package services
