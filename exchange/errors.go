package exchange

const (
	OpListings      = "listings"
	OpGlobalMetrics = "global-metrics"
)

// FetchError is returned for any failed upstream call: transport errors,
// non-2xx responses, undecodable bodies and missing fields alike.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return "failed to fetch " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors.Cause reach the underlying error.
func (e *FetchError) Cause() error { return e.Err }
