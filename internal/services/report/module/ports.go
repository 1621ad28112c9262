package module

import "pulseboard/internal/services/report/domain"

// Ports exposed by the report module
type Ports struct {
	Report domain.ServicePort
}
