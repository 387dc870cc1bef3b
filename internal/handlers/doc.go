// Package handlers contains the provider handler implementations that pull
// activity from external APIs and normalize it into qupts. One subpackage
// per provider; each implements driven.Handler against that provider's
// pagination and event model.
package handlers
