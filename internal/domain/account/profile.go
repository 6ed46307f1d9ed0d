package account

import "time"

// Profile is the per-user document written after an account is created or a
// federated sign-in succeeds. CreatedAt is assigned by the store on write.
type Profile struct {
	UserID    string
	Email     string
	CreatedAt time.Time
}
