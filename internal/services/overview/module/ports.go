package module

import "pulseboard/internal/services/overview/domain"

// Ports exposed by the overview module
type Ports struct {
	Overview domain.ServicePort
}
