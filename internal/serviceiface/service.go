package serviceiface

// Service is the unit the app manager starts and stops. Services run their
// own listeners or schedulers in goroutines started from Start.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
