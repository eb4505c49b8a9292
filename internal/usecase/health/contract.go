package health

// DatasetReader reports the presence of the loaded datasets.
type DatasetReader interface {
	Owners() []string
	Consumers() []string
}
