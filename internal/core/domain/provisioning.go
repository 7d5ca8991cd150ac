package domain

import "time"

// ProvisioningRun is the audit record of one bulk generation call. It
// deliberately carries no passwords and no raw seeds; runs exist so that
// operators can account for who provisioned how many credentials and when.
type ProvisioningRun struct {
	ID          string
	ProfileID   string
	ProfileName string
	Identities  int
	RequestedBy string
	CreatedAt   time.Time
}
