package fantasy

import "fmt"

type Resource string

const (
	ResourceLeague      Resource = "league"
	ResourceUsers       Resource = "users"
	ResourceRosters     Resource = "rosters"
	ResourceCurrentWeek Resource = "current_week"
)

// GatewayError is returned for any failed upstream read.
type GatewayError struct {
	Resource Resource
	Err      error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("error fetching %s: %v", e.Resource, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
