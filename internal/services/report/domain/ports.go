package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Preview(ctx context.Context, in PreviewInput) (Preview, error)
}
